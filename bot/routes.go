package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/catalogbot/bot/engine"
	coretelegram "github.com/m3rciful/catalogbot/core/telegram"
	"github.com/m3rciful/catalogbot/core/telegram/callbacks"
	"github.com/m3rciful/catalogbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/catalogbot/core/telegram/helpers"
	"github.com/m3rciful/catalogbot/core/telegram/middleware"
	"github.com/m3rciful/catalogbot/core/telegram/router"
)

const msgNotAllowed = "У вас нет доступа к этому боту."

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Главное меню",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			return renderAll(c, a.engine.Start(ctx, c.Chat().ID))
		},
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Description: "Отменить текущее действие",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			return renderAll(c, a.engine.Cancel(ctx, c.Chat().ID))
		},
	})
}

// registerCallbacks binds every engine action tag to a decoding handler.
func (a *App) registerCallbacks(reg *coretelegram.Registry) {
	for _, tag := range engine.Tags() {
		tag := tag
		_ = reg.RegisterCallback(tag, func(c tele.Context) error {
			payload := callbacks.CallbackPayload(c)
			act, ok := engine.DecodeAction(tag, payload)
			if !ok {
				return tghelpers.SendText(c, "Неподдерживаемое действие.")
			}
			ctx := tghelpers.BuildContext(c)
			return renderAll(c, a.engine.Handle(ctx, c.Chat().ID, engine.Act{Action: act}))
		})
	}
}

// textHandler feeds free text into the engine. Unmatched idle text produces
// no replies and falls through silently.
func (a *App) textHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return renderAll(c, a.engine.Handle(ctx, c.Chat().ID, engine.Text{Text: c.Text()}))
}

// photoHandler resolves the highest-resolution photo file URL and feeds it
// into the engine as an image event.
func (a *App) photoHandler(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	fileURL, err := c.Bot().FileURLByID(msg.Photo.FileID)
	if err != nil {
		return fmt.Errorf("bot: resolve photo file: %w", err)
	}
	ctx := tghelpers.BuildContext(c)
	return renderAll(c, a.engine.Handle(ctx, c.Chat().ID, engine.Photo{FileURL: fileURL}))
}

// fsmAdapter exposes the engine to the shared text router.
type fsmAdapter struct{ app *App }

func (f fsmAdapter) InProgress(userID int64) bool {
	return f.app.engine.InProgress(userID)
}

func (f fsmAdapter) ManagerHandler(c tele.Context) error {
	if c.Message() != nil && c.Message().Photo != nil {
		return f.app.photoHandler(c)
	}
	return f.app.textHandler(c)
}

func (a *App) middlewares() []coretelegram.Middleware {
	mws := coretelegram.DefaultMiddlewares(a.cfg, nil)
	mws = append(mws, coretelegram.Middleware{
		Name: "admin",
		Use: middleware.AdminOnlyMiddleware(middleware.AdminOptions{
			AdminID: a.cfg.Telegram.AdminID,
			OnReject: func(c tele.Context) error {
				return tghelpers.SendText(c, msgNotAllowed)
			},
		}),
	})
	return mws
}

func (a *App) routes(reg *coretelegram.Registry) []coretelegram.Route {
	fsm := fsmAdapter{app: a}

	routes := router.TextRoutes(fsm, reg, router.TextOptions{
		// A photo outside an image step is dropped by the engine anyway;
		// route it through so mid-form photos are not lost to races.
		UnknownPhoto: a.photoHandler,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})...)
	return routes
}
