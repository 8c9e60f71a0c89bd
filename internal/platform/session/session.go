// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package session carries the bearer credential between the browser and both
// services in an HTTP-only cookie.
//
// # Security
//
// The cookie is HttpOnly and scoped to Path=/. SameSite and Secure are
// deployment settings; SameSite=None is only allowed together with Secure,
// which [config] enforces at load time. Clearing the cookie reuses the exact
// attributes used to set it, otherwise browsers keep the old one around.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/authkit/internal/platform/constants"
)

// Options are the deployment-specific cookie attributes.
type Options struct {
	SameSite http.SameSite
	Secure   bool

	// MaxAge defaults to [constants.CredentialTTL].
	MaxAge time.Duration
}

// Transport writes, clears and reads the credential cookie.
type Transport struct {
	options Options
}

// New creates a Transport.
func New(options Options) *Transport {
	if options.MaxAge <= 0 {
		options.MaxAge = constants.CredentialTTL
	}
	if options.SameSite == 0 {
		options.SameSite = http.SameSiteLaxMode
	}
	return &Transport{options: options}
}

// Set attaches the credential cookie to the response.
func (transport *Transport) Set(writer http.ResponseWriter, token string) {
	cookie := transport.cookie(token)
	cookie.MaxAge = int(transport.options.MaxAge.Seconds())
	cookie.Expires = time.Now().Add(transport.options.MaxAge)
	http.SetCookie(writer, cookie)
}

// Clear instructs the browser to drop the credential cookie.
func (transport *Transport) Clear(writer http.ResponseWriter) {
	cookie := transport.cookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(writer, cookie)
}

// Read extracts the raw credential from the request.
//
// The cookie wins; an "Authorization: Bearer" header is accepted for non-browser
// clients. An empty string means no credential was presented.
func (transport *Transport) Read(request *http.Request) string {
	if cookie, err := request.Cookie(constants.CredentialCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (transport *Transport) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     constants.CredentialCookieName,
		Value:    value,
		Path:     constants.CredentialCookiePath,
		HttpOnly: true,
		Secure:   transport.options.Secure,
		SameSite: transport.options.SameSite,
	}
}
