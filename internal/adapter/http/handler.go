package httpadapter

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/shopspring/decimal"

	"printbank/internal/app/admin"
	"printbank/internal/app/booster"
	"printbank/internal/app/daily"
	"printbank/internal/app/leaderboard"
	"printbank/internal/app/ledger"
	"printbank/internal/app/player"
	"printbank/internal/app/ports"
	"printbank/internal/app/rank"
	"printbank/internal/app/referral"
	"printbank/internal/app/task"
	"printbank/internal/app/transfer"
	"printbank/internal/app/upgrade"
	"printbank/internal/domain/economy"
)

const playerIDHeader = "X-Player-ID"
const adminTokenHeader = "X-Admin-Token"

type gameSwitch interface {
	GameEnabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error
}

type commissionDispatcher interface {
	DeliverPending(ctx context.Context) (referral.DispatchReport, error)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	PlayerUC       player.UseCase
	UpgradeUC      upgrade.UseCase
	TransferUC     transfer.UseCase
	RankUC         rank.UseCase
	DailyUC        daily.UseCase
	TaskUC         task.UseCase
	SubscriptionUC referral.SubscriptionUseCase
	ProfileUC      referral.ProfileUseCase
	BoosterUC      booster.UseCase
	AdminUC        admin.UseCase
	LeaderboardUC  leaderboard.UseCase
	Dispatcher     commissionDispatcher
	Game           gameSwitch
	AdminToken     string
	KPI            kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	game := s.Group("/api/game")
	game.POST("/init", h.initialize)
	game.GET("/player", h.getPlayer)
	game.POST("/level-up", h.levelUp)
	game.POST("/buy-material", h.buyMaterial)
	game.POST("/transfer/bank", h.transferBank)
	game.POST("/transfer/task", h.transferTask)
	game.GET("/ranks", h.ranks)
	game.POST("/rank", h.increaseRank)
	game.POST("/daily", h.claimDaily)
	game.POST("/case-win", h.caseWin)
	game.GET("/tasks", h.listTasks)
	game.POST("/tasks/complete", h.completeTask)
	game.POST("/subscribe", h.subscribe)
	game.GET("/boosters", h.activeBoosters)
	game.GET("/boosters/catalog", h.boosterCatalog)
	game.POST("/boosters", h.grantBooster)
	game.GET("/referrals", h.referralProfile)
	game.GET("/referrals/reward", h.referralReward)
	game.GET("/sale", h.saleInfo)
	game.GET("/leaderboard", h.leaderboard)

	adm := s.Group("/api/admin", h.requireAdmin)
	adm.POST("/tasks", h.createTask)
	adm.DELETE("/tasks/:id", h.deleteTask)
	adm.POST("/tasks/:id/limit", h.updateTaskLimit)
	adm.POST("/players/:id/commission", h.setCommissionPercent)
	adm.POST("/players/:id/bank", h.adjustBank)
	adm.POST("/players/:id/task-balance", h.creditTaskBalance)
	adm.GET("/game", h.gameState)
	adm.POST("/game", h.setGame)
	adm.POST("/transactions/ingest", h.ingestTransaction)
	adm.POST("/commissions/dispatch", h.dispatchCommissions)
	adm.POST("/leaderboard/invalidate", h.invalidateLeaderboard)

	s.GET("/ops/kpi", h.kpi)
}

type initializeRequest struct {
	ReferrerID string `json:"referrer_id"`
}

type levelUpRequest struct {
	Entity string `json:"entity"`
}

type buyMaterialRequest struct {
	Pack string `json:"pack"`
}

type completeTaskRequest struct {
	TaskID          string `json:"task_id"`
	IsChannelMember bool   `json:"is_channel_member"`
}

type grantBoosterRequest struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Hash   string          `json:"hash,omitempty"`
}

type createTaskRequest struct {
	Title                string          `json:"title"`
	Link                 string          `json:"link"`
	ChannelID            string          `json:"channel_id"`
	Bonus                decimal.Decimal `json:"bonus"`
	RewardedMinutes      int64           `json:"rewarded_minutes"`
	CompletionLimit      int             `json:"completion_limit"`
	ConfirmationDisabled bool            `json:"confirmation_disabled"`
	Langs                []string        `json:"langs"`
	Exp                  int64           `json:"exp"`
}

type taskLimitRequest struct {
	Limit int `json:"limit"`
}

type commissionRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type setGameRequest struct {
	Enabled *bool `json:"enabled"`
}

type ingestRequest struct {
	Hash        string          `json:"hash"`
	Source      string          `json:"source"`
	Payload     string          `json:"payload"`
	Amount      decimal.Decimal `json:"amount"`
	Lt          int64           `json:"lt"`
	UTime       int64           `json:"utime"`
	HasOutgoing bool            `json:"has_outgoing"`
}

func (h Handler) initialize(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body initializeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.PlayerUC.Initialize(c, player.InitializeRequest{
		PlayerID:   playerID,
		ReferrerID: strings.TrimSpace(body.ReferrerID),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) getPlayer(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	reconcile := true
	if raw := string(ctx.Query("reconcile")); raw != "" {
		reconcile, err = strconv.ParseBool(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "reconcile must be a boolean")
			return
		}
	}
	resp, err := h.PlayerUC.Get(c, playerID, reconcile)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) levelUp(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body levelUpRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	p, err := h.UpgradeUC.LevelUp(c, playerID, body.Entity)
	writePlayer(ctx, p, err)
}

func (h Handler) buyMaterial(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body buyMaterialRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	p, err := h.UpgradeUC.BuyMaterial(c, playerID, body.Pack)
	writePlayer(ctx, p, err)
}

func (h Handler) transferBank(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	p, err := h.TransferUC.BankToBalance(c, playerID)
	writePlayer(ctx, p, err)
}

func (h Handler) transferTask(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	p, err := h.TransferUC.TaskToBalance(c, playerID)
	writePlayer(ctx, p, err)
}

func (h Handler) ranks(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"ranks": h.RankUC.Ladder()})
}

func (h Handler) increaseRank(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	p, err := h.RankUC.IncreaseRank(c, playerID)
	writePlayer(ctx, p, err)
}

func (h Handler) claimDaily(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.DailyUC.Claim(c, playerID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) caseWin(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.DailyUC.CreditCaseWin(c, playerID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) listTasks(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	tasks, err := h.TaskUC.ListForPlayer(c, playerID, string(ctx.Query("lang")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"tasks": tasks})
}

func (h Handler) completeTask(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body completeTaskRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	p, err := h.TaskUC.CompleteTask(c, task.CompleteRequest{
		PlayerID:        playerID,
		TaskID:          body.TaskID,
		IsChannelMember: body.IsChannelMember,
	})
	writePlayer(ctx, p, err)
}

func (h Handler) subscribe(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.SubscriptionUC.ConfirmSubscription(c, playerID)
	if err != nil && len(resp.Credited) == 0 {
		writeError(ctx, err)
		return
	}
	// partial failures are logged by the use case; successful credits stand
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) activeBoosters(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	active, err := h.BoosterUC.ActiveBoosts(c, playerID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"boosters": active})
}

func (h Handler) boosterCatalog(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"boosters": economy.Boosters()})
}

func (h Handler) grantBooster(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body grantBoosterRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	boost, err := h.BoosterUC.GrantBoost(c, booster.GrantRequest{
		PlayerID: playerID,
		Kind:     strings.ToLower(strings.TrimSpace(body.Kind)),
		Amount:   body.Amount,
		Hash:     body.Hash,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, map[string]any{"booster": boost})
}

func (h Handler) referralReward(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	total, err := h.BoosterUC.ReferralRewardTotal(c, playerID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"reward": total})
}

func (h Handler) referralProfile(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	profile, err := h.ProfileUC.Profile(c, playerID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"profile": profile})
}

func (h Handler) saleInfo(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	info, err := h.BoosterUC.SaleInfo(c, playerID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"sale": info})
}

func (h Handler) leaderboard(c context.Context, ctx *app.RequestContext) {
	entries, err := h.LeaderboardUC.Top(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"leaderboard": entries})
}

func (h Handler) createTask(c context.Context, ctx *app.RequestContext) {
	var body createTaskRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	rec, err := h.TaskUC.Create(c, task.CreateRequest{
		Title:                body.Title,
		Link:                 body.Link,
		ChannelID:            body.ChannelID,
		Bonus:                body.Bonus,
		RewardedMinutes:      body.RewardedMinutes,
		CompletionLimit:      body.CompletionLimit,
		ConfirmationDisabled: body.ConfirmationDisabled,
		Langs:                body.Langs,
		Exp:                  body.Exp,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, map[string]any{"task": rec})
}

func (h Handler) deleteTask(c context.Context, ctx *app.RequestContext) {
	if err := h.TaskUC.Delete(c, ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(consts.StatusNoContent)
}

func (h Handler) updateTaskLimit(c context.Context, ctx *app.RequestContext) {
	var body taskLimitRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	rec, err := h.TaskUC.UpdateLimit(c, ctx.Param("id"), body.Limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"task": rec})
}

func (h Handler) setCommissionPercent(c context.Context, ctx *app.RequestContext) {
	var body commissionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	account, err := h.AdminUC.SetCommissionPercent(c, ctx.Param("id"), body.Percent)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"account": account})
}

// adjustBank takes a signed amount: positive credits, negative debits.
func (h Handler) adjustBank(c context.Context, ctx *app.RequestContext) {
	var body amountRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	account, err := h.AdminUC.AdjustBank(c, ctx.Param("id"), body.Amount)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"account": account})
}

func (h Handler) creditTaskBalance(c context.Context, ctx *app.RequestContext) {
	var body amountRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	p, err := h.AdminUC.CreditTaskBalance(c, ctx.Param("id"), body.Amount)
	writePlayer(ctx, p, err)
}

func (h Handler) gameState(c context.Context, ctx *app.RequestContext) {
	if h.Game == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "game switch not configured")
		return
	}
	enabled, err := h.Game.GameEnabled(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"enabled": enabled})
}

func (h Handler) setGame(c context.Context, ctx *app.RequestContext) {
	if h.Game == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "game switch not configured")
		return
	}
	var body setGameRequest
	if err := decodeJSON(ctx, &body); err != nil || body.Enabled == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "enabled is required")
		return
	}
	if err := h.Game.SetEnabled(c, *body.Enabled); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"enabled": *body.Enabled})
}

func (h Handler) ingestTransaction(c context.Context, ctx *app.RequestContext) {
	var body ingestRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	outcome, err := h.BoosterUC.Ingest(c, booster.ExternalTransfer{
		Hash:        body.Hash,
		Source:      body.Source,
		Payload:     body.Payload,
		Amount:      body.Amount,
		Lt:          body.Lt,
		UTime:       body.UTime,
		HasOutgoing: body.HasOutgoing,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"outcome": outcome})
}

func (h Handler) dispatchCommissions(c context.Context, ctx *app.RequestContext) {
	if h.Dispatcher == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "dispatcher not configured")
		return
	}
	report, err := h.Dispatcher.DeliverPending(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, report)
}

func (h Handler) invalidateLeaderboard(_ context.Context, ctx *app.RequestContext) {
	h.LeaderboardUC.Invalidate()
	ctx.Status(consts.StatusNoContent)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingPlayerIDHeader = errors.New("missing x-player-id header")
var ErrAdminDisabled = errors.New("admin api is disabled")
var ErrInvalidAdminToken = errors.New("invalid admin token")

// requirePlayerID trusts the header: the player was authenticated by the
// gateway in front of this service.
func requirePlayerID(ctx *app.RequestContext) (string, error) {
	playerID := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	if playerID == "" {
		return "", ErrMissingPlayerIDHeader
	}
	return playerID, nil
}

func (h Handler) requireAdmin(c context.Context, ctx *app.RequestContext) {
	if h.AdminToken == "" {
		writeError(ctx, ErrAdminDisabled)
		ctx.Abort()
		return
	}
	token := strings.TrimSpace(string(ctx.GetHeader(adminTokenHeader)))
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.AdminToken)) != 1 {
		writeError(ctx, ErrInvalidAdminToken)
		ctx.Abort()
		return
	}
	ctx.Next(c)
}

func writePlayer(ctx *app.RequestContext, p economy.Player, err error) {
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"player": p})
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingPlayerIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error())
	case errors.Is(err, ErrAdminDisabled):
		writeErrorBody(ctx, consts.StatusForbidden, "admin_disabled", err.Error())
	case errors.Is(err, ErrInvalidAdminToken):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_admin_token", err.Error())
	case errors.Is(err, economy.ErrConfiguration):
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	case errors.Is(err, economy.ErrNotEnoughBalance):
		writeErrorBody(ctx, consts.StatusConflict, "not_enough_balance", err.Error())
	case errors.Is(err, economy.ErrFullStorage):
		writeErrorBody(ctx, consts.StatusConflict, "full_storage", err.Error())
	case errors.Is(err, economy.ErrMaxLevelReached):
		writeErrorBody(ctx, consts.StatusConflict, "max_level_reached", err.Error())
	case errors.Is(err, economy.ErrLimitReached):
		writeErrorBody(ctx, consts.StatusConflict, "limit_reached", err.Error())
	case errors.Is(err, economy.ErrAlreadyClaimed):
		writeErrorBody(ctx, consts.StatusConflict, "already_claimed", err.Error())
	case errors.Is(err, economy.ErrThresholdsNotMet):
		writeErrorBody(ctx, consts.StatusConflict, "thresholds_not_met", err.Error())
	case errors.Is(err, economy.ErrInvalidEntity):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_entity", err.Error())
	case errors.Is(err, economy.ErrInvalidPack):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_pack", err.Error())
	case errors.Is(err, economy.ErrInvalidBooster):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_booster", err.Error())
	case errors.Is(err, player.ErrInvalidReferral):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_referral", err.Error())
	case errors.Is(err, task.ErrAlreadyCompleted):
		writeErrorBody(ctx, consts.StatusConflict, "already_completed", err.Error())
	case errors.Is(err, task.ErrCompletionLimit):
		writeErrorBody(ctx, consts.StatusConflict, "completion_limit", err.Error())
	case errors.Is(err, task.ErrNotAChannelMember):
		writeErrorBody(ctx, consts.StatusForbidden, "not_a_channel_member", err.Error())
	case errors.Is(err, booster.ErrBoostActive):
		writeErrorBody(ctx, consts.StatusConflict, "boost_active", err.Error())
	case errors.Is(err, admin.ErrNegativeBalance):
		writeErrorBody(ctx, consts.StatusConflict, "negative_balance", err.Error())
	case errors.Is(err, ledger.ErrInvalidRequest),
		errors.Is(err, player.ErrInvalidRequest),
		errors.Is(err, transfer.ErrInvalidRequest),
		errors.Is(err, task.ErrInvalidRequest),
		errors.Is(err, referral.ErrInvalidRequest),
		errors.Is(err, booster.ErrInvalidRequest),
		errors.Is(err, admin.ErrInvalidRequest),
		errors.Is(err, leaderboard.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrPlayerNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "player_not_found", err.Error())
	case errors.Is(err, ports.ErrTaskNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "task_not_found", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
