package middleware

import (
	"net/http"
	"time"

	"klickjet-storefront/internal/transport"

	"github.com/google/uuid"
)

const (
	DeviceIDHeader = "X-Device-ID"
	TabIDHeader    = "X-Tab-ID"

	deviceCookie = "device_id"
	tabCookie    = "tab_id"

	deviceCookieMaxAge = 365 * 24 * time.Hour
)

func readID(r *http.Request, header, cookie string) string {
	if v := r.Header.Get(header); v != "" {
		return v
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}

// Session assigns every request a device id (scope of the anonymous cart)
// and a tab id (scope of the checkout relay). Ids come from headers or
// cookies; missing ones are generated and handed back in both.
//
// The device cookie is persistent, the tab cookie lives for the browser
// session.
func Session(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := readID(r, DeviceIDHeader, deviceCookie)
			if deviceID == "" {
				deviceID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     deviceCookie,
					Value:    deviceID,
					Path:     "/",
					MaxAge:   int(deviceCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			tabID := readID(r, TabIDHeader, tabCookie)
			if tabID == "" {
				tabID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     tabCookie,
					Value:    tabID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			w.Header().Set(DeviceIDHeader, deviceID)
			w.Header().Set(TabIDHeader, tabID)

			sh, _ := transport.ShopperFrom(r.Context())
			sh.DeviceID = deviceID
			sh.TabID = tabID

			next.ServeHTTP(w, r.WithContext(transport.WithShopper(r.Context(), sh)))
		})
	}
}
