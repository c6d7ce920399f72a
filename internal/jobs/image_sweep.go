package jobs

import (
	"spice/internal/logger"
)

// ImageSweeper removes unreferenced image files.
type ImageSweeper interface {
	Sweep() (int, error)
}

// RegisterImageSweep runs sweeper on the given cron schedule.
func RegisterImageSweep(s *Scheduler, schedule string, sweeper ImageSweeper) error {
	return s.Add("image-sweep", schedule, func() error {
		removed, err := sweeper.Sweep()
		if err != nil {
			return err
		}
		if removed > 0 {
			logger.Get().Infow("image sweep complete", "removed", removed)
		}
		return nil
	})
}
