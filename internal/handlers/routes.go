package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/shortener"
)

// ReservedCodes are first path segments served by routes other than the redirect.
var ReservedCodes = []shortener.Code{"shorten", "owners", "health", "docs", "schemas"}

// RegisterRoutes registers all short link routes.
func RegisterRoutes(api huma.API, h *LinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-link",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create short link",
		Description:   "Allocates a generated short code, or registers the requested custom alias, for a long URL.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateShortLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-owner-links",
		Method:      http.MethodGet,
		Path:        "/owners/{owner}/links",
		Summary:     "List an owner's links",
		Tags:        []string{"Links"},
	}, h.ListOwnerLinks)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/{code}",
		Summary:       "Redirect to original URL",
		Description:   "Redirects to the original URL associated with the short code.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusMovedPermanently,
	}, h.Redirect)
}
