package user

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"freshcart/internal/domain/session"
	"freshcart/internal/domain/user"
)

type Handler struct {
	service    user.Servicer
	session    session.Servicer
	log        *slog.Logger
	middleware huma.Middlewares // публичные операции
	authed     huma.Middlewares // операции под Bearer-токеном
}

func NewHandler(service user.Servicer, session session.Servicer, log *slog.Logger, middleware, authed huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		session:    session,
		log:        log,
		middleware: middleware,
		authed:     authed,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.logoutOp(), h.logout)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	userID, err := h.service.Register(ctx, input.Body.Login, input.Body.Password)
	if err != nil {
		return &registerOutput{
			Body: RegisterResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	// сразу открываем сессию, отдельный вход после регистрации не нужен
	token, err := h.session.Create(ctx, userID)
	if err != nil {
		h.log.Error("не удалось создать сессию после регистрации", "user_id", userID, "error", err)
		return &registerOutput{
			Body: RegisterResponse{ID: userID, Status: "Error", Error: "session creation failed"},
		}, nil
	}

	return &registerOutput{
		Body: RegisterResponse{ID: userID, Token: token, Status: "Ok"},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Login, input.Body.Password)
	if err != nil {
		return &loginOutput{
			Body: LoginResponse{
				Status: "Error",
				Error:  "Invalid credentials",
			},
		}, nil
	}

	token, err := h.session.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("не удалось создать сессию", "user_id", u.ID, "error", err)
		return &loginOutput{
			Body: LoginResponse{Status: "Error", Error: "session creation failed"},
		}, nil
	}

	return &loginOutput{
		Body: LoginResponse{
			Token:  token,
			Status: "Ok",
		},
	}, nil
}

func (h *Handler) logout(ctx context.Context, input *logoutInput) (*logoutOutput, error) {
	token := strings.TrimPrefix(input.Authorization, "Bearer ")

	if err := h.session.Revoke(ctx, token); err != nil {
		h.log.Warn("не удалось отозвать сессию", "error", err)
		return &logoutOutput{
			Body: LogoutResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &logoutOutput{
		Body: LogoutResponse{Status: "Ok"},
	}, nil
}
