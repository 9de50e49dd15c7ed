package middlewares

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/restaurant-concierge/pkg/logger"
	"github.com/onurcolak/restaurant-concierge/pkg/response"
	"github.com/onurcolak/restaurant-concierge/pkg/twilio"
)

type TwilioSignatureConfig struct {
	AuthToken string
	Enabled   bool
	// PublicBaseURL replaces scheme and host when the service sits behind a
	// proxy that rewrites them.
	PublicBaseURL string
}

// TwilioSignature rejects webhook calls whose X-Twilio-Signature does not match
// the request URL and form parameters.
func TwilioSignature(cfg TwilioSignatureConfig) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Twilio signs the POST body only; query values stay in the URL.
			if _, err := c.FormParams(); err != nil {
				logger.Warnf("Rejected webhook with unreadable form body: %v", err)
				return response.Forbidden(c, "Invalid request signature")
			}
			params := c.Request().PostForm

			fullURL := requestURL(c, cfg.PublicBaseURL)
			signature := c.Request().Header.Get(twilio.SignatureHeader)
			if !twilio.ValidateSignature(cfg.AuthToken, fullURL, params, signature) {
				logger.Warnf("Rejected webhook with invalid signature for %s", fullURL)
				return response.Forbidden(c, "Invalid request signature")
			}

			return next(c)
		}
	}
}

func requestURL(c echo.Context, publicBaseURL string) string {
	uri := c.Request().RequestURI
	if uri == "" {
		uri = c.Request().URL.RequestURI()
	}
	if publicBaseURL != "" {
		return strings.TrimRight(publicBaseURL, "/") + uri
	}
	return c.Scheme() + "://" + c.Request().Host + uri
}
