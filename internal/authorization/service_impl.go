package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectProfile     = "profile"
	ObjectQuiz        = "quiz"
	ObjectGame        = "game"
	ObjectMission     = "mission"
	ObjectLeaderboard = "leaderboard"
	ObjectReward      = "reward"
	ObjectAssistant   = "assistant"
	ObjectEnvData     = "env_data"
	ObjectUser        = "user"
)

const (
	ActionView   = "view"
	ActionPlay   = "play"
	ActionUpdate = "update"
	ActionRedeem = "redeem"
	ActionAsk    = "ask"

	ActionQuizCreate    = "quiz.create"
	ActionQuizGenerate  = "quiz.generate"
	ActionMissionCreate = "mission.create"
	ActionRewardManage  = "reward.manage"
	ActionUserManage    = "user.manage"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	return newEnforcerWithAdapter(adapter)
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, userID string, role string, object string, action string) error {
	_ = ctx

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	roleName := fmt.Sprintf("role:%s", strings.ToLower(strings.TrimSpace(role)))
	if roleName == "role:" {
		return ErrForbidden
	}

	subject := fmt.Sprintf("user:%s", userID)
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Student permissions: play the product
		{"role:student", ObjectProfile, ActionView},
		{"role:student", ObjectProfile, ActionUpdate},
		{"role:student", ObjectQuiz, ActionView},
		{"role:student", ObjectQuiz, ActionPlay},
		{"role:student", ObjectGame, ActionView},
		{"role:student", ObjectGame, ActionPlay},
		{"role:student", ObjectMission, ActionView},
		{"role:student", ObjectMission, ActionPlay},
		{"role:student", ObjectLeaderboard, ActionView},
		{"role:student", ObjectReward, ActionView},
		{"role:student", ObjectReward, ActionRedeem},
		{"role:student", ObjectAssistant, ActionAsk},
		{"role:student", ObjectEnvData, ActionView},

		// Teacher permissions: author content on top of playing
		{"role:teacher", ObjectQuiz, ActionQuizCreate},
		{"role:teacher", ObjectQuiz, ActionQuizGenerate},
		{"role:teacher", ObjectMission, ActionMissionCreate},

		// Admin permissions: operate the catalog and accounts
		{"role:admin", ObjectReward, ActionRewardManage},
		{"role:admin", ObjectUser, ActionUserManage},
	}

	groupings := [][]string{
		{"role:teacher", "role:student"},
		{"role:admin", "role:teacher"},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	for _, grouping := range groupings {
		if _, err := enforcer.AddGroupingPolicy(grouping[0], grouping[1]); err != nil {
			return err
		}
	}
	return nil
}

func newEnforcerWithAdapter(adapter *gormadapter.Adapter) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}
