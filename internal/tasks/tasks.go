// Package tasks wires the asynq background queue: an alternative persistence
// path that moves slice writes through Redis, and the listing image
// normalization pipeline.
package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"github.com/Mboiraai/rork-automarketconnect/internal/config"
	"github.com/Mboiraai/rork-automarketconnect/internal/services"
	"github.com/Mboiraai/rork-automarketconnect/internal/storage"
)

// Task types.
const (
	TypePersistSlice = "state:persist"
	TypeImageProcess = "image:process"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	opts := rdb.Options()
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// PersistTaskPayload carries one serialized state slice.
type PersistTaskPayload struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// ImageTaskPayload identifies an uploaded image awaiting normalization.
type ImageTaskPayload struct {
	S3Key     string `json:"s3_key"`
	ListingID string `json:"listing_id"`
}

// AsynqPersister implements services.Persister by pushing slice writes onto
// the queue instead of writing in-process. Used when the Redis backend is
// active so durability survives process restarts mid-write.
type AsynqPersister struct {
	client *asynq.Client
	logger *slog.Logger
}

func NewAsynqPersister(client *asynq.Client, logger *slog.Logger) *AsynqPersister {
	return &AsynqPersister{client: client, logger: logger}
}

// Enqueue is fire-and-forget; enqueue failures are logged and dropped, the
// in-memory state stays authoritative either way.
func (p *AsynqPersister) Enqueue(key string, value []byte) {
	payload, err := json.Marshal(PersistTaskPayload{Key: key, Value: value})
	if err != nil {
		p.logger.Error("failed to marshal persist payload", "key", key, "error", err)
		return
	}
	task := asynq.NewTask(TypePersistSlice, payload)
	if _, err := p.client.Enqueue(task, asynq.Queue("critical")); err != nil {
		p.logger.Error("failed to enqueue persist task", "key", key, "error", err)
	}
}

// EnqueueImageProcess schedules normalization of a freshly uploaded image.
func EnqueueImageProcess(client *asynq.Client, s3Key, listingID string) error {
	payload, err := json.Marshal(ImageTaskPayload{S3Key: s3Key, ListingID: listingID})
	if err != nil {
		return fmt.Errorf("failed to marshal image task payload: %w", err)
	}
	task := asynq.NewTask(TypeImageProcess, payload)
	if _, err := client.Enqueue(task, asynq.Queue("images")); err != nil {
		return fmt.Errorf("failed to enqueue image task: %w", err)
	}
	return nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg      *config.Config
	kv       storage.IKeyValueStore
	store    services.IMarketplaceStore
	s3Client *s3.Client
	logger   *slog.Logger
}

func NewTaskProcessor(
	cfg *config.Config,
	kv storage.IKeyValueStore,
	store services.IMarketplaceStore,
	s3Client *s3.Client,
	logger *slog.Logger,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:      cfg,
		kv:       kv,
		store:    store,
		s3Client: s3Client,
		logger:   logger,
	}
}

// SetupServer configures an Asynq server and its handler mux. The caller
// runs the returned server; a nil server means no handlers apply to this
// worker mode.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isImageWorker, isBgWorker bool) (*asynq.Server, *asynq.ServeMux) {
	opts := rdb.Options()
	serverOpt := asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"images":   5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				processor.logger.Error("task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()

	if isBgWorker {
		mux.HandleFunc(TypePersistSlice, processor.HandlePersistSliceTask)
		processor.logger.Info("registered background task handlers")
	}

	if isImageWorker {
		mux.HandleFunc(TypeImageProcess, processor.HandleImageProcessTask)
		processor.logger.Info("registered image processing task handlers")
	}

	if !isBgWorker && !isImageWorker {
		processor.logger.Info("running in API mode, no task server started")
		return nil, nil
	}

	return srv, mux
}

// --- Task Handlers ---

// HandlePersistSliceTask lands a serialized state slice in the key-value
// backend. Retried on write failure; last write per key wins.
func (p *TaskProcessor) HandlePersistSliceTask(ctx context.Context, t *asynq.Task) error {
	var payload PersistTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal persist task payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.kv.Set(ctx, payload.Key, payload.Value); err != nil {
		return fmt.Errorf("failed to persist slice %s: %w", payload.Key, err)
	}
	p.logger.Debug("persisted slice", "key", payload.Key, "bytes", len(payload.Value))
	return nil
}

// HandleImageProcessTask downloads a freshly uploaded listing image, enforces
// the size limit, resizes it to fit the configured max dimension, re-uploads
// the normalized JPEG over the original key and attaches the image URL to the
// listing.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image task payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.Info("processing image", "s3Key", payload.S3Key, "listingID", payload.ListingID)

	getObjectOutput, err := p.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.AwsS3Bucket),
		Key:    aws.String(payload.S3Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			p.logger.Warn("s3 object not found, upload likely failed", "s3Key", payload.S3Key)
			return fmt.Errorf("s3 object not found: %w", asynq.SkipRetry)
		}
		return fmt.Errorf("failed to download image from S3: %w", err)
	}
	defer getObjectOutput.Body.Close()

	imgData, err := io.ReadAll(getObjectOutput.Body)
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	maxSizeBytes := int64(p.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(imgData)) > maxSizeBytes {
		p.logger.Warn("image exceeds max size, skipping", "s3Key", payload.S3Key, "size", len(imgData), "max", maxSizeBytes)
		return fmt.Errorf("image exceeds max size: %w", asynq.SkipRetry)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}
	p.logger.Debug("decoded image", "s3Key", payload.S3Key, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	maxDim := uint(p.cfg.ImageMaxDimension)
	needsResize := uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim

	processedImageData := imgData
	contentType := aws.ToString(getObjectOutput.ContentType)

	if needsResize {
		resizedImg := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resizedImg, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("failed to re-encode resized image: %w", err)
		}
		processedImageData = buf.Bytes()
		contentType = "image/jpeg"

		if int64(len(processedImageData)) > maxSizeBytes {
			return fmt.Errorf("resized image still exceeds max size: %w", asynq.SkipRetry)
		}
	}

	_, err = p.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.AwsS3Bucket),
		Key:         aws.String(payload.S3Key),
		Body:        bytes.NewReader(processedImageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload processed image: %w", err)
	}

	imageURL := payload.S3Key
	if p.cfg.ImageBaseS3URL != "" {
		imageURL = p.cfg.ImageBaseS3URL + "/" + payload.S3Key
	}
	if err := p.store.AddListingImage(payload.ListingID, imageURL); err != nil {
		return fmt.Errorf("failed to attach image to listing: %w", err)
	}

	p.logger.Info("image processed", "s3Key", payload.S3Key, "listingID", payload.ListingID)
	return nil
}
