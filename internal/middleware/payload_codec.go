package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/konnect-app/backend/pkg/payload"
	"github.com/labstack/echo/v4"
)

// EncryptedHeader marks a request body as codec-encrypted. Device clients set
// it on every call; requests without it pass through untouched so the same
// routes stay usable from development tools.
const EncryptedHeader = "X-Konnect-Encrypted"

// PayloadCodecMiddleware transparently decrypts encrypted request bodies
// before binding. The decrypted JSON replaces the body so handlers bind as
// usual.
func PayloadCodecMiddleware(codec *payload.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(EncryptedHeader) == "" {
				return next(c)
			}

			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
			}
			plaintext, err := codec.Decrypt(string(bytes.TrimSpace(body)))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Failed to decrypt request payload")
			}

			c.Request().Body = io.NopCloser(bytes.NewReader(plaintext))
			c.Request().ContentLength = int64(len(plaintext))
			c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			c.Request().Header.Set(echo.HeaderContentLength, strconv.Itoa(len(plaintext)))
			return next(c)
		}
	}
}
