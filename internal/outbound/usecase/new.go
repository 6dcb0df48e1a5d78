package usecase

import (
	"jira-telegram-bridge/internal/outbound"
	"jira-telegram-bridge/internal/tracker/repository"
	pkgLog "jira-telegram-bridge/pkg/log"
)

type implUseCase struct {
	l       pkgLog.Logger
	tracker repository.TrackerRepository
	echo    outbound.EchoRecorder
}

func New(l pkgLog.Logger, tracker repository.TrackerRepository, echo outbound.EchoRecorder) outbound.UseCase {
	return &implUseCase{
		l:       l,
		tracker: tracker,
		echo:    echo,
	}
}
