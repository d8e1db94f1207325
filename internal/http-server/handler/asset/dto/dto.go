package dto

import (
	"strings"
	"time"

	"pictiato/internal/domain"
)

type AssetResponse struct {
	ID            string     `json:"id"`
	Filename      string     `json:"filename"`
	Domain        string     `json:"domain"`
	ContentLength int64      `json:"content_length"`
	Expires       *time.Time `json:"expires,omitempty"`
	Created       time.Time  `json:"created"`
	URI           string     `json:"uri"`
}

// StatusResponse is the uniform envelope for errors and plain confirmations.
type StatusResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func FromAsset(a *domain.Asset, baseURI string) AssetResponse {
	return AssetResponse{
		ID:            a.ID,
		Filename:      a.Filename,
		Domain:        a.Domain,
		ContentLength: a.ContentLength,
		Expires:       a.Expires,
		Created:       a.Created,
		URI:           strings.TrimSuffix(baseURI, "/") + a.FetchPath(),
	}
}

func FromAssets(assets []domain.Asset, baseURI string) []AssetResponse {
	out := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		out = append(out, FromAsset(&assets[i], baseURI))
	}
	return out
}
