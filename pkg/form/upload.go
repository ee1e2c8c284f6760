package form

import (
	"context"
	"fmt"
	"io"
)

// Uploader transfers file payloads to external storage and returns a stable
// reference for the stored object.
type Uploader interface {
	Upload(ctx context.Context, field, filename string, contents io.Reader) (string, error)
}

// UploadStats tracks transfer outcomes per field. Attempted counts every
// call; Succeeded only transfers that produced a reference.
type UploadStats struct {
	Attempted int
	Succeeded int
}

func (d *Dispatcher) statsFor(field string) *UploadStats {
	stats, ok := d.uploads[field]
	if !ok {
		stats = &UploadStats{}
		d.uploads[field] = stats
	}
	return stats
}

// Upload transfers one file for a field through the configured uploader and
// returns the storage reference. Failures fire the transient notifier and
// leave the field's value list untouched.
func (d *Dispatcher) Upload(ctx context.Context, field, filename string, contents io.Reader) (string, error) {
	stats := d.statsFor(field)
	stats.Attempted++

	if d.uploader == nil {
		d.notify(fmt.Sprintf("upload failed for %s: no uploader configured", field))
		return "", fmt.Errorf("form: upload %s: no uploader configured", field)
	}

	ref, err := d.uploader.Upload(ctx, field, filename, contents)
	if err != nil {
		d.notify(fmt.Sprintf("upload failed for %s", field))
		return "", fmt.Errorf("form: upload %s: %w", field, err)
	}

	stats.Succeeded++
	return ref, nil
}

// UploadStatsFor returns a copy of the transfer counters for a field.
func (d *Dispatcher) UploadStatsFor(field string) UploadStats {
	if stats, ok := d.uploads[field]; ok {
		return *stats
	}
	return UploadStats{}
}
