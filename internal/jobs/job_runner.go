package jobs

import (
	"proprental-backend/internal/config"
	"proprental-backend/internal/logger"
	"proprental-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	agreements service.AgreementService
	config     *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(agreements service.AgreementService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		agreements: agreements,
		config:     cfg,
	}
}

// Config exposes the configuration for job registration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
