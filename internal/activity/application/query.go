package application

import (
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
)

const FindActivityQueryName = "FindActivity"

type FindActivityData struct {
	RequestID string
}

func NewFindActivityQuery(data FindActivityData) pkgDomain.Query[FindActivityData] {
	return pkgDomain.NewQuery(FindActivityQueryName, data)
}
