package worker

import (
	"github.com/synchrony/student-management/internal/service"
)

// StartPhotoCleanupWorker registers the photo cleanup handlers on the dispatcher.
func StartPhotoCleanupWorker(cleanup *service.PhotoCleanupService) {
	if cleanup == nil {
		return
	}
	cleanup.RegisterHandlers()
}
