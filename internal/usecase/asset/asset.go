package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"pictiato/internal/cache"
	"pictiato/internal/domain"
	repoasset "pictiato/internal/repository/asset"
	"pictiato/internal/repository/blob"
	"pictiato/internal/usecase/transform"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

// Options carries the tunables the orchestrators need beyond their
// collaborators.
type Options struct {
	DefaultTTL time.Duration
	CropAlign  transform.Options
}

type AssetUsecase struct {
	registry    tenantRegistry
	repo        assetRepository
	blobs       blobRepository
	cache       derivativeCache
	events      EventPublisher // nil disables lifecycle events
	watermarker *transform.Watermarker
	logger      *zlog.Zerolog
	defaultTTL  time.Duration
	cropAlign   transform.Options
	now         func() time.Time
}

func NewAssetUsecase(
	registry tenantRegistry,
	repo assetRepository,
	blobs blobRepository,
	dcache derivativeCache,
	events EventPublisher,
	watermarker *transform.Watermarker,
	logger *zlog.Zerolog,
	opts Options,
) *AssetUsecase {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = domain.DefaultDerivativeTTL
	}
	return &AssetUsecase{
		registry:    registry,
		repo:        repo,
		blobs:       blobs,
		cache:       dcache,
		events:      events,
		watermarker: watermarker,
		logger:      logger,
		defaultTTL:  opts.DefaultTTL,
		cropAlign:   opts.CropAlign,
		now:         time.Now,
	}
}

// UploadInput is everything ingestion needs from the request. File is nil
// when the form carried no file field. Oversized marks a body that exceeded
// the upload limit before the form could be parsed; it is reported in the
// same precondition slot as a missing file so the check order stays fixed.
type UploadInput struct {
	Domain      string
	ContentType string
	Expires     string
	Secret      string
	Filename    string
	File        io.Reader
	Oversized   bool
}

// Upload validates, re-encodes and stores one image. The precondition checks
// run in a fixed order so each failure kind is stable for clients. The blob
// write completes before the metadata record referencing it is committed.
func (u *AssetUsecase) Upload(ctx context.Context, in UploadInput) (*domain.Asset, error) {
	if !u.registry.IsKnownDomain(in.Domain) {
		return nil, ErrUnknownDomain
	}
	if !strings.HasPrefix(in.ContentType, "multipart/form-data") {
		return nil, ErrBadContentType
	}

	var expires *time.Time
	if in.Expires != "" {
		t, err := time.Parse(time.RFC1123, in.Expires)
		if err != nil {
			return nil, ErrInvalidExpires
		}
		expires = &t
	}

	resolved, err := u.registry.ResolveSecret(in.Secret)
	if err != nil {
		return nil, err
	}
	if resolved != in.Domain {
		return nil, ErrDomainMismatch
	}
	if in.Oversized {
		return nil, ErrFileTooLarge
	}
	if in.File == nil {
		return nil, ErrMissingFile
	}

	data, err := io.ReadAll(in.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	img, err := transform.Decode(data)
	if err != nil {
		return nil, ErrUnprocessableImage
	}

	if text := u.registry.Watermark(in.Domain); text != "" && u.watermarker != nil {
		stamped, err := u.watermarker.Stamp(img, text)
		if err != nil {
			u.logger.Error().Err(err).Str("domain", in.Domain).Msg("Watermark failed, storing unmarked")
		} else {
			img = stamped
		}
	}

	encoded, contentType, err := transform.EncodeCanonical(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode canonical image: %w", err)
	}

	created := u.now().UTC()
	a := &domain.Asset{
		ID:            uuid.New().String(),
		Filename:      canonicalFilename(in.Filename, created),
		Domain:        in.Domain,
		ContentLength: int64(len(encoded)),
		Expires:       expires,
		Created:       created,
	}

	if err := u.blobs.Put(ctx, a.StoragePath(), encoded, contentType); err != nil {
		return nil, fmt.Errorf("failed to store blob: %w", err)
	}

	if err := u.repo.Create(ctx, a); err != nil {
		// keep blob and metadata lifecycles tied; the orphaned blob is
		// harmless if this cleanup fails, retrieval will never see it
		if delErr := u.blobs.Delete(ctx, a.StoragePath()); delErr != nil {
			u.logger.Error().Err(delErr).Str("path", a.StoragePath()).Msg("Failed to clean up blob after metadata failure")
		}
		return nil, fmt.Errorf("failed to create asset record: %w", err)
	}

	u.publish(ctx, domain.EventAssetCreated, a)

	u.logger.Info().
		Str("domain", a.Domain).
		Str("asset_id", a.ID).
		Str("filename", a.Filename).
		Int64("content_length", a.ContentLength).
		Msg("Asset ingested")
	return a, nil
}

// List returns every asset descriptor record for a domain, newest first.
func (u *AssetUsecase) List(ctx context.Context, domainName string) ([]domain.Asset, error) {
	if !u.registry.IsKnownDomain(domainName) {
		return nil, ErrUnknownDomain
	}
	assets, err := u.repo.ListByDomain(ctx, domainName)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// Derivative is the byte stream a retrieval produces.
type Derivative struct {
	Data        []byte
	ContentType string
	Expires     *time.Time
}

// Retrieve serves one derivative, cache first. An unrecognized size token
// selects the pass-through variant rather than failing; the transform engine
// stays strict for internal callers. Cache failures degrade to recomputation
// and are never surfaced.
func (u *AssetUsecase) Retrieve(ctx context.Context, domainName, id, filename, sizeToken string, crop bool) (*Derivative, error) {
	if !u.registry.IsKnownDomain(domainName) {
		return nil, ErrUnknownDomain
	}

	a, err := u.repo.Get(ctx, domainName, id, filename)
	if err != nil {
		if errors.Is(err, repoasset.ErrAssetNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	size, _ := domain.ParseSizeClass(sizeToken)
	key := cache.Key(a.FetchPath(), size, crop)

	entry, err := u.cache.Get(ctx, key)
	if err != nil {
		u.logger.Warn().Err(err).Str("key", key).Msg("Cache get failed, recomputing")
	}
	if entry != nil {
		return &Derivative{Data: entry.Data, ContentType: entry.ContentType, Expires: a.Expires}, nil
	}

	src, err := u.blobs.Get(ctx, a.StoragePath())
	if err != nil {
		// a missing or unreadable blob is operationally a missing asset
		u.logger.Error().Err(err).Str("path", a.StoragePath()).Msg("Failed to load canonical blob")
		return nil, ErrAssetNotFound
	}

	data, contentType, err := transform.Derivative(src, size, crop, u.cropAlign)
	if err != nil {
		if errors.Is(err, transform.ErrCorruptSource) {
			u.logger.Error().Err(err).Str("path", a.StoragePath()).Msg("Canonical blob is corrupt")
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to transform derivative: %w", err)
	}

	ttl := cache.TTL(a.Expires, u.now(), u.defaultTTL)
	if err := u.cache.Set(ctx, key, &cache.Entry{ContentType: contentType, Data: data}, ttl); err != nil {
		u.logger.Warn().Err(err).Str("key", key).Msg("Cache set failed")
	}

	return &Derivative{Data: data, ContentType: contentType, Expires: a.Expires}, nil
}

// Delete removes blob and metadata, then purges the asset's entire derivative
// key space. The metadata delete precedes the purge so a crash in between
// cannot leave a reachable asset with stale derivatives. Concurrent deletes
// are safe: the loser observes ErrAssetNotFound.
func (u *AssetUsecase) Delete(ctx context.Context, domainName, id, filename, secret string) error {
	if !u.registry.IsKnownDomain(domainName) {
		return ErrUnknownDomain
	}

	resolved, err := u.registry.ResolveSecret(secret)
	if err != nil {
		return err
	}
	if resolved != domainName {
		return ErrDomainMismatch
	}

	a, err := u.repo.Get(ctx, domainName, id, filename)
	if err != nil {
		if errors.Is(err, repoasset.ErrAssetNotFound) {
			return ErrAssetNotFound
		}
		return fmt.Errorf("failed to get asset for deletion: %w", err)
	}

	if err := u.blobs.Delete(ctx, a.StoragePath()); err != nil {
		// an already-missing blob is fine: retrieval treats it as not-found.
		// any other store failure aborts before metadata is touched, so the
		// asset stays intact and the delete can be retried.
		if !errors.Is(err, blob.ErrBlobNotFound) {
			return fmt.Errorf("failed to delete blob: %w", err)
		}
		u.logger.Warn().Err(err).Str("path", a.StoragePath()).Msg("Blob already missing on delete")
	}

	if err := u.repo.Delete(ctx, domainName, id, filename); err != nil {
		if errors.Is(err, repoasset.ErrAssetNotFound) {
			return ErrAssetNotFound
		}
		return fmt.Errorf("failed to delete asset record: %w", err)
	}

	if err := u.cache.Delete(ctx, cache.PurgeKeys(a.FetchPath())...); err != nil {
		u.logger.Error().Err(err).Str("path", a.FetchPath()).Msg("Failed to purge derivative cache")
	}

	u.publish(ctx, domain.EventAssetDeleted, a)

	u.logger.Info().
		Str("domain", a.Domain).
		Str("asset_id", a.ID).
		Str("filename", a.Filename).
		Msg("Asset deleted")
	return nil
}

func (u *AssetUsecase) publish(ctx context.Context, eventType domain.EventType, a *domain.Asset) {
	if u.events == nil {
		return
	}
	ev := &domain.AssetEvent{
		Type:       eventType,
		Domain:     a.Domain,
		AssetID:    a.ID,
		Filename:   a.Filename,
		Path:       a.FetchPath(),
		OccurredAt: u.now().UTC(),
	}
	if err := u.events.Publish(ctx, ev); err != nil {
		u.logger.Error().Err(err).Str("asset_id", a.ID).Str("type", string(eventType)).Msg("Failed to publish event")
	}
}

// canonicalFilename derives the stored filename: the upload's basename with
// a timestamp suffix (so same-day re-uploads never overwrite) and the
// canonical extension.
func canonicalFilename(uploaded string, created time.Time) string {
	base := filepath.Base(uploaded)
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s.%d%s", name, created.UnixNano(), domain.CanonicalExtension)
}
