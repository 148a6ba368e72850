// Package distributor drives the batch distribution run: selecting the
// next batch of unfinished locations, creating their destination
// folders, drawing images from the source cycler, and persisting
// completion once per batch.
package distributor

import (
	"errors"
	"fmt"
	"path/filepath"

	"locpack/pkg/catalog"
	"locpack/pkg/config"
	"locpack/pkg/cycler"
	errs "locpack/pkg/errors"
	"locpack/pkg/logger"
	"locpack/pkg/retry"
	"locpack/pkg/sanitize"
	"locpack/pkg/state"
	"locpack/pkg/storage"
)

// Distributor orchestrates the distribution of images into per-location
// destination folders
type Distributor struct {
	config  *config.Config
	catalog *catalog.Catalog
	store   *state.Store
	cycler  *cycler.Cycler
	target  *storage.Manager
	logger  logger.Logger

	// claimed maps sanitized folder names to the location that claimed
	// them during this run, to surface sanitization collisions.
	claimed map[string]string
	// attempted holds locations already tried this run, so skipped
	// conflicts are not re-selected by later batches of the same run.
	attempted map[string]bool
}

// Summary reports what one batch did
type Summary struct {
	Selected     int
	Completed    []string
	Skipped      []string
	ImagesCopied int
	Shortfalls   int
	// Done is set when no unfinished location remained to select
	Done bool
}

// New creates a Distributor: loads the catalog and progress state, scans
// the source folders once, and prepares the target root.
func New(cfg *config.Config) (*Distributor, error) {
	log := logger.GetLogger()

	cat, err := catalog.Load(cfg.Paths.LocationsFile)
	if err != nil {
		return nil, err
	}
	log.WithField("locations", cat.Count()).Info("location catalog loaded")

	store := state.NewStore(cfg.Paths.StateFile)
	if err := store.Load(); err != nil {
		return nil, err
	}

	folders, err := storage.ScanSources(cfg.Paths.SourceDir)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, errs.New(errs.ErrorTypeConfig,
			fmt.Sprintf("no source folders found under %s", cfg.Paths.SourceDir))
	}
	totalImages := 0
	for _, f := range folders {
		totalImages += f.ImageCount()
	}
	log.InfoWithFields("source folders scanned", map[string]interface{}{
		"folders": len(folders),
		"images":  totalImages,
	})

	target, err := storage.NewManager(cfg.Paths.TargetDir)
	if err != nil {
		return nil, err
	}

	// Advance past the images prior runs already drew. The cursor itself
	// is never persisted; the skip is derived from the completion count,
	// so consumption keeps spreading across folders after a resume.
	cyc := cycler.New(folders)
	if skip := store.Count() * cfg.Batch.ImagesPerFolder; skip > 0 {
		cyc.Skip(skip)
		log.DebugWithFields("cycler advanced past prior runs", map[string]interface{}{
			"skipped":   skip,
			"remaining": cyc.Remaining(),
		})
	}

	return &Distributor{
		config:    cfg,
		catalog:   cat,
		store:     store,
		cycler:    cyc,
		target:    target,
		logger:    log,
		claimed:   make(map[string]string),
		attempted: make(map[string]bool),
	}, nil
}

// selectBatch collects the next locations to process: catalog order,
// skipping anything already complete or already attempted this run, up
// to the configured batch size.
func (d *Distributor) selectBatch() []string {
	var batch []string
	for _, loc := range d.catalog.All() {
		if len(batch) >= d.config.Batch.BatchSize {
			break
		}
		if d.store.IsComplete(loc) || d.attempted[loc] {
			continue
		}
		batch = append(batch, loc)
	}
	return batch
}

// RunBatch processes one batch and persists its completions. Returns a
// summary of the batch; Done is set when nothing was left to select.
func (d *Distributor) RunBatch() (*Summary, error) {
	batch := d.selectBatch()
	if len(batch) == 0 {
		d.logger.Info("all locations have been processed")
		return &Summary{Done: true}, nil
	}

	summary := &Summary{Selected: len(batch)}
	var pending []string

	for _, location := range batch {
		d.attempted[location] = true

		copied, err := d.processLocation(location, summary)
		if err != nil {
			var typed *errs.Error
			if errors.As(err, &typed) && errs.IsFatal(typed.Type) {
				return nil, err
			}
			summary.Skipped = append(summary.Skipped, location)
			summary.ImagesCopied += copied
			d.logger.WithError(err).WithField("location", location).Warn("location skipped")
			continue
		}

		summary.ImagesCopied += copied
		pending = append(pending, location)
	}

	// Persist once per batch so a crash mid-batch never marks a
	// partially processed location as complete.
	if len(pending) > 0 {
		if err := d.store.RecordBatch(pending); err != nil {
			return nil, fmt.Errorf("failed to persist batch: %w", err)
		}
	}
	summary.Completed = pending

	d.logger.InfoWithFields("batch complete", map[string]interface{}{
		"selected":      summary.Selected,
		"completed":     len(summary.Completed),
		"skipped":       len(summary.Skipped),
		"images_copied": summary.ImagesCopied,
		"shortfalls":    summary.Shortfalls,
	})

	return summary, nil
}

// RunAll loops batches until no unfinished location remains to select.
// Conflicted locations stay incomplete and are reported at the end.
func (d *Distributor) RunAll() (*Summary, error) {
	total := &Summary{}
	for {
		batch, err := d.RunBatch()
		if err != nil {
			return nil, err
		}
		if batch.Done {
			total.Done = true
			return total, nil
		}
		total.Selected += batch.Selected
		total.Completed = append(total.Completed, batch.Completed...)
		total.Skipped = append(total.Skipped, batch.Skipped...)
		total.ImagesCopied += batch.ImagesCopied
		total.Shortfalls += batch.Shortfalls
	}
}

// processLocation handles a single location: sanitize, conflict check,
// folder creation, allocation, copy. Returns the number of images
// copied. Any returned error means the location stays incomplete.
func (d *Distributor) processLocation(location string, summary *Summary) (int, error) {
	folderName := sanitize.Name(location)

	if prev, ok := d.claimed[folderName]; ok && prev != location {
		return 0, errs.New(errs.ErrorTypeFolderConflict,
			fmt.Sprintf("folder name %q already claimed by location %q", folderName, prev))
	}

	if d.target.FolderExists(folderName) {
		// Never overwrite unknown existing content. The location is not
		// marked complete, so a later run retries it after manual review.
		return 0, errs.New(errs.ErrorTypeFolderConflict,
			fmt.Sprintf("destination folder %q already exists", d.target.FolderPath(folderName)))
	}

	folderPath, err := d.target.CreateFolder(folderName)
	if err != nil {
		return 0, err
	}
	d.claimed[folderName] = location
	d.logger.WithFields(map[string]interface{}{
		"location": location,
		"folder":   folderPath,
	}).Debug("destination folder created")

	want := d.config.Batch.ImagesPerFolder
	images := d.cycler.Allocate(want)
	if len(images) < want {
		summary.Shortfalls++
		d.logger.WarnWithFields("not enough images available", map[string]interface{}{
			"location": location,
			"wanted":   want,
			"got":      len(images),
		})
	}

	copied, err := d.copyImages(images, folderPath)
	if err != nil {
		// Abort the location's remaining copies and leave it unmarked;
		// the next run will retry and report the half-filled folder as a
		// conflict for manual review.
		return copied, err
	}

	d.logger.InfoWithFields("location processed", map[string]interface{}{
		"location": location,
		"folder":   folderName,
		"images":   copied,
	})

	return copied, nil
}

// copyImages copies the allocated images into the destination folder,
// retrying transient failures per the retry configuration.
func (d *Distributor) copyImages(images []cycler.ImageRef, folderPath string) (int, error) {
	retryCfg := &retry.Config{
		MaxAttempts: d.config.Retry.MaxAttempts,
		Backoff:     &retry.ConstantBackoff{Delay: d.config.Retry.RetryDelay},
		RetryIf:     retry.DefaultRetryIf,
		Logger:      d.logger,
	}

	copied := 0
	for _, img := range images {
		dst := filepath.Join(folderPath, img.FileName)
		err := retry.Do(func() error {
			return storage.CopyFile(img.Path, dst)
		}, retryCfg)
		if err != nil {
			return copied, errs.Wrap(errs.ErrorTypeCopy,
				fmt.Sprintf("failed to copy %s", img.Path), err)
		}
		copied++
		d.logger.DebugWithFields("image copied", map[string]interface{}{
			"source": img.Path,
			"dest":   dst,
		})
	}
	return copied, nil
}
