package web

import (
	"net/url"
	"strings"

	"github.com/forgefit/forgefit/screen"
	"github.com/gofiber/fiber/v2"
)

const returnToField = "return_to"

// Navigator over a single request. History is what the client tells us it
// came from, accepted only within this origin.
type Navigator struct {
	ctx  *fiber.Ctx
	back string
}

var _ screen.Navigator = (*Navigator)(nil)

func NewNavigator(ctx *fiber.Ctx) *Navigator {
	back := sameOriginPath(ctx, ctx.FormValue(returnToField))
	if back == "" {
		back = sameOriginPath(ctx, ctx.Get(fiber.HeaderReferer))
	}
	// the form posting to itself is not history, whatever its query
	if backPath, _, _ := strings.Cut(back, "?"); backPath == ctx.Path() {
		back = ""
	}
	return &Navigator{ctx: ctx, back: back}
}

func (n *Navigator) CanGoBack() bool {
	return n.back != ""
}

func (n *Navigator) BackPath() string {
	return n.back
}

func (n *Navigator) Back() error {
	return n.ctx.Redirect(n.back, fiber.StatusSeeOther)
}

func (n *Navigator) Replace(route string) error {
	return n.ctx.Redirect(route, fiber.StatusSeeOther)
}

// Path with query of target, or empty when target leaves this origin.
func sameOriginPath(ctx *fiber.Ctx, target string) string {
	if target == "" {
		return ""
	}
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	if u.Scheme != "" || u.Host != "" {
		if u.Scheme != ctx.Protocol() || u.Host != ctx.Hostname() {
			return ""
		}
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return ""
	}
	path := u.Path
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}
