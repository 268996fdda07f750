package quiz

import (
	"github.com/carbonctrl/carbonctrl/internal/quiz/repository"
	"github.com/carbonctrl/carbonctrl/internal/quiz/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quiz.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
