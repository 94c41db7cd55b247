package handlers

import "time"

// CreateShortLinkRequest is the request for creating a short link.
type CreateShortLinkRequest struct {
	Body struct {
		URL         string `doc:"The URL to shorten"                       example:"https://example.com/very/long/path" json:"url"`
		CustomAlias string `doc:"Optional custom code, 5-30 of [a-zA-Z0-9_-]" example:"my-campaign"                   json:"customAlias,omitempty"`
	}
}

// CreateShortLinkResponse is the response for a successfully created short link.
type CreateShortLinkResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Code        string `doc:"The short code"     example:"abc1234"                            json:"code"`
		ShortURL    string `doc:"The full short URL" example:"http://localhost:8888/abc1234"      json:"shortUrl"`
		OriginalURL string `doc:"The original URL"   example:"https://example.com/very/long/path" json:"originalUrl"`
	}
}

// RedirectRequest is the request for redirecting a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc1234" path:"code"`
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

// ListOwnerLinksRequest is the request for listing the links of an owner.
type ListOwnerLinksRequest struct {
	Owner string `doc:"The owner id" example:"user-42" path:"owner"`
}

// LinkSummary describes one stored short link.
type LinkSummary struct {
	Code        string    `json:"code"`
	ShortURL    string    `json:"shortUrl"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListOwnerLinksResponse lists an owner's links, newest first.
type ListOwnerLinksResponse struct {
	Body struct {
		Links []LinkSummary `json:"links"`
	}
}
