package status

import "github.com/dayanaadylkhanova/pow-miner/internal/entity"

//go:generate mockgen -source=interfaces.go -destination=./server_mock.go -package=status

type StatsSource interface {
	Stats() entity.Stats
}
