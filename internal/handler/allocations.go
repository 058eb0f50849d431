package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/allocator"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/explain"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/features"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/fuzzy"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/utils"
)

func (h *Handler) ListAllocationRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if param := r.URL.Query().Get("limit"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil || parsed < 1 || parsed > 100 {
			h.errorResponse(w, r, "limit 必须是 1 到 100 之间的整数")
			return
		}
		limit = parsed
	}

	runs, err := h.repository.ListAllocationRuns(limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取优化运行列表成功", runs)
}

// CreateAllocationRun 触发一次完整的分配流水线：
// 特征工程 -> 模糊打分 -> 遗传搜索 -> 报告生成 -> 持久化 -> 邮件摘要
func (h *Handler) CreateAllocationRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed              *int64   `json:"seed"`
		PopulationSize    *int32   `json:"populationSize"`
		Generations       *int32   `json:"generations"`
		CrossoverRate     *float64 `json:"crossoverRate"`
		MutationRate      *float64 `json:"mutationRate"`
		TournamentSize    *int32   `json:"tournamentSize"`
		SurvivalWeight    *float64 `json:"survivalWeight"`
		PriorityWeight    *float64 `json:"priorityWeight"`
		UtilizationWeight *float64 `json:"utilizationWeight"`
	}

	// 请求体可以为空，此时全部使用配置默认值
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}

	// 未显式给出的参数取配置默认值
	parameters := &domain.AllocationParameters{
		PopulationSize:    h.config.Optimizer.PopulationSize,
		Generations:       h.config.Optimizer.Generations,
		CrossoverRate:     h.config.Optimizer.CrossoverRate,
		MutationRate:      h.config.Optimizer.MutationRate,
		TournamentSize:    h.config.Optimizer.TournamentSize,
		SurvivalWeight:    h.config.Optimizer.SurvivalWeight,
		PriorityWeight:    h.config.Optimizer.PriorityWeight,
		UtilizationWeight: h.config.Optimizer.UtilizationWeight,
	}
	if req.PopulationSize != nil {
		parameters.PopulationSize = *req.PopulationSize
	}
	if req.Generations != nil {
		parameters.Generations = *req.Generations
	}
	if req.CrossoverRate != nil {
		parameters.CrossoverRate = *req.CrossoverRate
	}
	if req.MutationRate != nil {
		parameters.MutationRate = *req.MutationRate
	}
	if req.TournamentSize != nil {
		parameters.TournamentSize = *req.TournamentSize
	}
	if req.SurvivalWeight != nil {
		parameters.SurvivalWeight = *req.SurvivalWeight
	}
	if req.PriorityWeight != nil {
		parameters.PriorityWeight = *req.PriorityWeight
	}
	if req.UtilizationWeight != nil {
		parameters.UtilizationWeight = *req.UtilizationWeight
	}

	if err := utils.ValidateAllocationParameters(parameters); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	patients, err := h.repository.GetAllPatients()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	// 床位表为空时也照常运行，得到一份空分配结果
	beds, err := h.repository.GetAllBeds()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	patients = fuzzy.Score(features.EngineerPatients(patients))
	beds = features.EngineerBeds(beds)

	rng := rand.New(rand.NewSource(seed))
	alloc := allocator.New(parameters, patients, beds, rng)

	best, metrics, conflicts := alloc.Run()
	assignments := alloc.BuildAssignments(best)
	report := explain.BuildReport(metrics, conflicts, assignments, patients)

	run := &domain.AllocationRun{
		Seed:        seed,
		Parameters:  *parameters,
		Fitness:     alloc.BestFitness(),
		Assignments: assignments,
		Report:      report,
	}

	if err := h.repository.InsertAllocationRun(run); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 报告摘要发到病区邮箱，失败只记日志不影响本次运行的结果返回
	if err := h.publishAllocationReportMail(run); err != nil {
		slog.Error("发送分配报告邮件失败", "error", err, "run_id", run.ID)
	}

	h.successResponse(w, r, "优化运行完成", run)
}

func (h *Handler) publishAllocationReportMail(run *domain.AllocationRun) error {
	mailMessage := domain.MailMessage{
		Type: "allocation_report",
		To:   h.config.Email.WardInbox,
		Data: domain.AllocationReportMailData{
			RunID:       run.ID,
			Explanation: run.Report.MethodExplanation,
			Utilization: run.Report.OptimizationScore.Utilization,
			Conflicts:   run.Report.ConflictResolution,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

func (h *Handler) GetAllocationRun(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(AllocationRunCtx).(*domain.AllocationRun)
	h.successResponse(w, r, "获取优化运行成功", run)
}

func (h *Handler) GetAllocationRunAssignments(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(AllocationRunCtx).(*domain.AllocationRun)
	h.successResponse(w, r, "获取分配结果成功", run.Assignments)
}
