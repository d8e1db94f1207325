package asset

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pictiato/internal/domain"
	"pictiato/internal/http-server/handler/asset/dto"
	"pictiato/internal/tenant"
	asset_uc "pictiato/internal/usecase/asset"

	"github.com/go-chi/chi/v5"
	"github.com/wb-go/wbf/zlog"
)

const (
	maxMemory = 32 << 20
)

type AssetHandler struct {
	usecase      assetUsecase
	baseURI      string
	secretHeader string
	logger       *zlog.Zerolog
}

func NewAssetHandler(usecase assetUsecase, baseURI, secretHeader string, logger *zlog.Zerolog) *AssetHandler {
	return &AssetHandler{
		usecase:      usecase,
		baseURI:      baseURI,
		secretHeader: secretHeader,
		logger:       logger,
	}
}

// Upload accepts one multipart image for the domain in the path. The form is
// parsed leniently here so the usecase can report precondition failures in a
// fixed order even when the body is not multipart at all.
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, domain.DefaultMaxUploadSize)

	in := asset_uc.UploadInput{
		Domain:      chi.URLParam(r, "domain"),
		ContentType: r.Header.Get("Content-Type"),
		Expires:     r.Header.Get("Expires"),
		Secret:      r.Header.Get(h.secretHeader),
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		in.Oversized = errors.As(err, &maxBytesErr)
	} else if file, handler, err := r.FormFile("file"); err == nil {
		defer file.Close()
		in.Filename = handler.Filename
		in.File = file
	}

	a, err := h.usecase.Upload(ctx, in)
	if err != nil {
		h.logger.Warn().Err(err).Str("domain", in.Domain).Msg("Upload rejected")
		h.respondError(w, err)
		return
	}

	h.logger.Info().
		Str("asset_id", a.ID).
		Str("domain", a.Domain).
		Str("filename", a.Filename).
		Int64("content_length", a.ContentLength).
		Msg("Asset uploaded")

	h.respondJSON(w, http.StatusOK, dto.FromAsset(a, h.baseURI))
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domainName := chi.URLParam(r, "domain")

	assets, err := h.usecase.List(ctx, domainName)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.FromAssets(assets, h.baseURI))
}

// Serve writes the requested derivative. The size token is taken as-is and
// resolved downstream; crop defaults to false on any unparsable value.
func (h *AssetHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	domainName := chi.URLParam(r, "domain")
	id := chi.URLParam(r, "id")
	filename := chi.URLParam(r, "filename")

	q := r.URL.Query()
	crop, _ := strconv.ParseBool(q.Get("crop"))

	d, err := h.usecase.Retrieve(ctx, domainName, id, filename, q.Get("size"), crop)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(d.Data)))
	if d.Expires != nil {
		w.Header().Set("Expires", d.Expires.UTC().Format(http.TimeFormat))
	}

	if _, err := w.Write(d.Data); err != nil {
		h.logger.Error().
			Err(err).
			Str("domain", domainName).
			Str("asset_id", id).
			Msg("Failed to write derivative")
	}
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	domainName := chi.URLParam(r, "domain")
	id := chi.URLParam(r, "id")
	filename := chi.URLParam(r, "filename")

	err := h.usecase.Delete(ctx, domainName, id, filename, r.Header.Get(h.secretHeader))
	if err != nil {
		h.logger.Warn().Err(err).Str("domain", domainName).Str("asset_id", id).Msg("Delete rejected")
		h.respondError(w, err)
		return
	}

	h.logger.Info().Str("domain", domainName).Str("asset_id", id).Msg("Asset deleted")
	h.respondJSON(w, http.StatusOK, dto.StatusResponse{
		Status:  http.StatusOK,
		Message: "OK",
	})
}

func (h *AssetHandler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, asset_uc.ErrAssetNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, asset_uc.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
		message = err.Error()
	case isRequestError(err):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		h.logger.Error().Err(err).Msg("Request failed")
	}

	h.respondJSON(w, status, dto.StatusResponse{
		Status:  status,
		Message: message,
	})
}

func isRequestError(err error) bool {
	for _, candidate := range []error{
		asset_uc.ErrUnknownDomain,
		asset_uc.ErrBadContentType,
		asset_uc.ErrInvalidExpires,
		asset_uc.ErrDomainMismatch,
		asset_uc.ErrMissingFile,
		asset_uc.ErrUnprocessableImage,
		tenant.ErrSecretFormat,
		tenant.ErrInvalidSecret,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func (h *AssetHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Interface("data", data).Msg("Failed to encode response")
	}
}
