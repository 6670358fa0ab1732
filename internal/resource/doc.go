// Package resource bounds what graph jobs may consume.
//
// Memory is accounted, not allocated: before building edge buffers, walk
// matrices or batch columns, a job reserves their estimated size and aborts
// with ErrMemoryLimitExceeded if the limit would be exceeded, so no partial
// result is ever produced.
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})
//
//	release, err := rc.Reserve("walks", bytes)
//	if err != nil {
//	    return err
//	}
//	defer release()
//
// Job slots bound how many heavy jobs run at the same time:
//
//	release, err := rc.Job(ctx)
//	if err != nil {
//	    return err
//	}
//	defer release()
//
// A nil *Controller imposes no limits.
package resource
