package httpserver

import (
	"github.com/labstack/echo/v4"
)

// serveApp renders the application shell. The shell boots the client with
// the current session so the first paint already knows who is signed in.
func (s *Server) serveApp(c echo.Context) error {
	data := map[string]any{
		"LoggedIn":    false,
		"DisplayName": "",
		"Role":        "",
		"ChannelSlug": "",
	}
	if ident, ok := s.store.Identity(); ok {
		data["LoggedIn"] = true
		data["DisplayName"] = ident.DisplayName
		data["Role"] = string(ident.Role)
		data["ChannelSlug"] = ident.ChannelSlug
	}

	return s.renderTemplate(c, "index.html", data)
}
