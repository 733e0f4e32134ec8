package jobs

import (
	"log"
	"time"

	"github.com/pragatibook/pragatibook-backend/internal/services"
)

// SweepJob periodically deletes expired password-reset codes. The reads
// already filter on expiry, so this only bounds table growth.
type SweepJob struct {
	otp       *services.OTPService
	interval  time.Duration
	isRunning bool
	stop      chan struct{}
}

// NewSweepJob creates a new expired-OTP sweep job
func NewSweepJob(otp *services.OTPService, interval time.Duration) *SweepJob {
	return &SweepJob{
		otp:      otp,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (j *SweepJob) Start() {
	if j.isRunning {
		log.Println("OTP sweep job already running")
		return
	}
	j.isRunning = true
	log.Printf("Starting OTP sweep job (every %v)", j.interval)

	go j.run()
}

// Stop halts the sweep loop
func (j *SweepJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping OTP sweep job...")
}

func (j *SweepJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.otp.SweepExpired(); err != nil {
				log.Printf("Error sweeping expired OTPs: %v", err)
			}
		case <-j.stop:
			return
		}
	}
}
