package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/config"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 个人信息
	h.Mux.Route("/me", func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)
		r.Get("/", h.GetMyInfo)
		r.Patch("/password", h.ChangeMyPassword)
	})

	// 操作员管理，只有调度管理员可以操作
	h.Mux.Route("/operators", func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.RequiredRole([]domain.Role{domain.RoleCoordinator}))
		r.Get("/", h.GetAllOperators)
		r.Post("/", h.CreateOperator)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.operatorInfo)
			r.Get("/", h.GetOperator)
			r.Patch("/", h.UpdateOperator)
			r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteOperator)
		})
	})

	// 病人表
	h.Mux.Route("/patients", func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/", h.GetAllPatients)
		r.With(h.RequiredRole([]domain.Role{domain.RoleDoctor, domain.RoleCoordinator})).Post("/", h.CreatePatient)
		r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/import", h.ImportPatients)
	})

	// 床位表
	h.Mux.Route("/beds", func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/", h.GetAllBeds)
		r.With(h.RequiredRole([]domain.Role{domain.RoleHeadNurse, domain.RoleCoordinator})).Post("/", h.CreateBed)
		r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/import", h.ImportBeds)
	})

	// 优化运行
	h.Mux.Route("/allocation-runs", func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/", h.ListAllocationRuns)
		r.With(h.RequiredRole([]domain.Role{domain.RoleHeadNurse, domain.RoleCoordinator})).Post("/", h.CreateAllocationRun)
		r.Route("/{option}", func(r chi.Router) {
			r.Use(h.allocationRun)
			r.Get("/", h.GetAllocationRun)
			r.Get("/assignments", h.GetAllocationRunAssignments)
		})
	})
}
