package imageprovider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

const (
	firebaseHost          = "firebasestorage.googleapis.com"
	gcsHost               = "storage.googleapis.com"
	downloadTokensKey     = "firebaseStorageDownloadTokens"
	defaultSignedURLTTL   = time.Hour
	defaultDownloadOrigin = "https://" + firebaseHost
)

// Ref locates an object in a bucket.
type Ref struct {
	Bucket string
	Object string
}

// ParseRef accepts a plain object path ("produtos/sofa.jpg"), a gs:// URI,
// a Firebase download URL or a storage.googleapis.com URL. Plain paths use
// defaultBucket.
func ParseRef(path, defaultBucket string) (Ref, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Ref{}, errors.ValidationError("empty storage path")
	}

	switch {
	case strings.HasPrefix(path, "gs://"):
		bucket, object, _ := strings.Cut(strings.TrimPrefix(path, "gs://"), "/")
		return newRef(bucket, object, path)

	case strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "http://"):
		u, err := url.Parse(path)
		if err != nil {
			return Ref{}, errors.New(err).
				Component("imageprovider").
				Category(errors.CategoryValidation).
				Build()
		}
		switch u.Host {
		case firebaseHost:
			// /v0/b/{bucket}/o/{object}; u.Path is already unescaped
			rest, ok := strings.CutPrefix(u.Path, "/v0/b/")
			if !ok {
				break
			}
			bucket, object, ok := strings.Cut(rest, "/o/")
			if !ok {
				break
			}
			return newRef(bucket, object, path)
		case gcsHost:
			bucket, object, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
			return newRef(bucket, object, path)
		}
		return Ref{}, errors.Newf("unsupported storage URL host %q", u.Host).
			Component("imageprovider").
			Category(errors.CategoryValidation).
			Build()
	}

	if defaultBucket == "" {
		return Ref{}, errors.Newf("no bucket configured for storage path %q", path).
			Component("imageprovider").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return newRef(defaultBucket, strings.TrimPrefix(path, "/"), path)
}

func newRef(bucket, object, raw string) (Ref, error) {
	if bucket == "" || object == "" {
		return Ref{}, errors.Newf("invalid storage reference %q", raw).
			Component("imageprovider").
			Category(errors.CategoryValidation).
			Build()
	}
	return Ref{Bucket: bucket, Object: object}, nil
}

// objectStore is the part of *storage.Client the resolver needs.
type objectStore interface {
	Attrs(ctx context.Context, ref Ref) (*storage.ObjectAttrs, error)
	SignedURL(ref Ref, opts *storage.SignedURLOptions) (string, error)
	Close() error
}

type gcsStore struct {
	client *storage.Client
}

func (s gcsStore) Attrs(ctx context.Context, ref Ref) (*storage.ObjectAttrs, error) {
	return s.client.Bucket(ref.Bucket).Object(ref.Object).Attrs(ctx)
}

func (s gcsStore) SignedURL(ref Ref, opts *storage.SignedURLOptions) (string, error) {
	return s.client.Bucket(ref.Bucket).SignedURL(ref.Object, opts)
}

func (s gcsStore) Close() error {
	return s.client.Close()
}

// FirebaseConfig configures a FirebaseResolver.
type FirebaseConfig struct {
	// Bucket used for plain object paths, e.g. "mrferreira.appspot.com".
	Bucket string
	// CredentialsFile is a service account JSON key. Empty means
	// application default credentials, unless Anonymous is set.
	CredentialsFile string
	// Anonymous skips authentication (public buckets, emulators).
	Anonymous bool
	// Endpoint overrides the storage API endpoint (emulator).
	Endpoint string
	// SignedURLFallback signs a V4 GET URL for objects without a download
	// token. Requires credentials able to sign.
	SignedURLFallback bool
	SignedURLExpiry   time.Duration
	// DownloadOrigin replaces https://firebasestorage.googleapis.com.
	DownloadOrigin string
}

// FirebaseResolver builds Firebase download URLs from object metadata, the
// way the Firebase web SDK's getDownloadURL does.
type FirebaseResolver struct {
	store objectStore
	cfg   FirebaseConfig
	log   logger.Logger
	now   func() time.Time
}

// NewFirebaseResolver connects to Cloud Storage.
func NewFirebaseResolver(ctx context.Context, cfg FirebaseConfig, log logger.Logger) (*FirebaseResolver, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Anonymous {
		opts = append(opts, option.WithoutAuthentication())
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.New(err).
			Component("imageprovider").
			Category(errors.CategoryStorage).
			Context("operation", "create_storage_client").
			Build()
	}
	return newFirebaseResolver(gcsStore{client: client}, cfg, log), nil
}

func newFirebaseResolver(store objectStore, cfg FirebaseConfig, log logger.Logger) *FirebaseResolver {
	if cfg.SignedURLExpiry <= 0 {
		cfg.SignedURLExpiry = defaultSignedURLTTL
	}
	cfg.DownloadOrigin = strings.TrimRight(cfg.DownloadOrigin, "/")
	if cfg.DownloadOrigin == "" {
		cfg.DownloadOrigin = defaultDownloadOrigin
	}
	if log == nil {
		log = logger.Global().Module("imageprovider")
	}
	return &FirebaseResolver{
		store: store,
		cfg:   cfg,
		log:   log.Module("firebase"),
		now:   time.Now,
	}
}

// Resolve implements Resolver.
func (r *FirebaseResolver) Resolve(ctx context.Context, path string) (string, error) {
	ref, err := ParseRef(path, r.cfg.Bucket)
	if err != nil {
		return "", err
	}

	attrs, err := r.store.Attrs(ctx, ref)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return "", errors.New(err).
				Component("imageprovider").
				Category(errors.CategoryNotFound).
				StorageContext(ref.Bucket, ref.Object).
				Build()
		}
		return "", errors.New(err).
			Component("imageprovider").
			Category(errors.CategoryStorage).
			Priority(errors.PriorityMedium).
			StorageContext(ref.Bucket, ref.Object).
			Build()
	}

	if token := downloadToken(attrs.Metadata); token != "" {
		return r.downloadURL(ref, token), nil
	}

	if r.cfg.SignedURLFallback {
		signed, err := r.store.SignedURL(ref, &storage.SignedURLOptions{
			Scheme:  storage.SigningSchemeV4,
			Method:  http.MethodGet,
			Expires: r.now().Add(r.cfg.SignedURLExpiry),
		})
		if err != nil {
			return "", errors.New(err).
				Component("imageprovider").
				Category(errors.CategoryImageResolve).
				Priority(errors.PriorityLow).
				StorageContext(ref.Bucket, ref.Object).
				Context("operation", "sign_url").
				Build()
		}
		r.log.Debug("Signed URL issued for object without download token",
			logger.String("bucket", ref.Bucket),
			logger.String("object", ref.Object))
		return signed, nil
	}

	return "", errors.Newf("object %q has no download token", ref.Object).
		Component("imageprovider").
		Category(errors.CategoryNotFound).
		StorageContext(ref.Bucket, ref.Object).
		Build()
}

// downloadURL formats https://firebasestorage.googleapis.com/v0/b/{bucket}/o/{object}?alt=media&token={token}.
func (r *FirebaseResolver) downloadURL(ref Ref, token string) string {
	q := url.Values{}
	q.Set("alt", "media")
	q.Set("token", token)
	return r.cfg.DownloadOrigin + "/v0/b/" + url.PathEscape(ref.Bucket) + "/o/" + url.PathEscape(ref.Object) + "?" + q.Encode()
}

// downloadToken returns the first of the comma separated tokens.
func downloadToken(metadata map[string]string) string {
	raw := metadata[downloadTokensKey]
	first, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(first)
}

// Close releases the storage client.
func (r *FirebaseResolver) Close() error {
	return r.store.Close()
}
