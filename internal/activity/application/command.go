package application

import (
	"github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
)

const RecordActivityCommandName = "RecordActivity"

// RecordActivityData contém a atividade a ser gravada.
type RecordActivityData struct {
	Activity domain.Activity
}

func NewRecordActivityCommand(data RecordActivityData) pkgDomain.Command[RecordActivityData] {
	return pkgDomain.NewCommand(RecordActivityCommandName, data)
}
