package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// LinkHandler exposes short link allocation and resolution over HTTP.
type LinkHandler struct {
	allocator *shortener.Allocator
	resolver  *shortener.Resolver
	links     shortener.Repository
	baseURL   string
	logger    *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	allocator *shortener.Allocator,
	resolver *shortener.Resolver,
	links shortener.Repository,
	baseURL string,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		allocator: allocator,
		resolver:  resolver,
		links:     links,
		baseURL:   baseURL,
		logger:    logger,
	}
}

func (h *LinkHandler) CreateShortLink(ctx context.Context, req *CreateShortLinkRequest) (*CreateShortLinkResponse, error) {
	link, err := h.allocator.Allocate(ctx, shortener.AllocateRequest{
		LongURL:     req.Body.URL,
		CustomAlias: req.Body.CustomAlias,
		OwnerID:     OwnerFromContext(ctx),
	})
	if err != nil {
		return nil, h.toHTTPError(err, "failed to create short link")
	}

	shortURL := h.shortURL(link.Code)

	resp := &CreateShortLinkResponse{Status: http.StatusCreated}
	resp.Headers.Location = shortURL
	resp.Body.Code = string(link.Code)
	resp.Body.ShortURL = shortURL
	resp.Body.OriginalURL = link.LongURL

	return resp, nil
}

func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	longURL, err := h.resolver.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.toHTTPError(err, "failed to resolve short link")
	}

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = longURL

	return resp, nil
}

func (h *LinkHandler) ListOwnerLinks(ctx context.Context, req *ListOwnerLinksRequest) (*ListOwnerLinksResponse, error) {
	links, err := h.links.ListByOwner(ctx, shortener.OwnerID(req.Owner))
	if err != nil {
		h.logger.Error("failed to list links", zap.String("owner", req.Owner), zap.Error(err))

		return nil, huma.Error503ServiceUnavailable("link storage unavailable")
	}

	resp := &ListOwnerLinksResponse{}
	resp.Body.Links = make([]LinkSummary, 0, len(links))

	for _, link := range links {
		resp.Body.Links = append(resp.Body.Links, LinkSummary{
			Code:        string(link.Code),
			ShortURL:    h.shortURL(link.Code),
			OriginalURL: link.LongURL,
			CreatedAt:   link.CreatedAt,
		})
	}

	return resp, nil
}

func (h *LinkHandler) shortURL(code shortener.Code) string {
	return fmt.Sprintf("%s/%s", h.baseURL, code)
}

func (h *LinkHandler) toHTTPError(err error, msg string) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidInput):
		return huma.Error422UnprocessableEntity("url must be an absolute URL")
	case errors.Is(err, shortener.ErrInvalidAlias):
		return huma.Error422UnprocessableEntity("custom alias must be 5-30 characters of letters, digits, '_' or '-'")
	case errors.Is(err, shortener.ErrAliasTaken):
		return huma.Error409Conflict("custom alias is already in use")
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short link not found")
	case errors.Is(err, shortener.ErrDependencyUnavailable):
		h.logger.Error(msg, zap.Error(err))

		return huma.Error503ServiceUnavailable("storage temporarily unavailable")
	default:
		h.logger.Error(msg, zap.Error(err))

		return huma.Error500InternalServerError(msg)
	}
}
