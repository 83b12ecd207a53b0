package compoff

import "context"

type CompOffService interface {
	List(ctx context.Context, filter ListFilter) ([]CompOffResponse, error)
	Save(ctx context.Context, req SaveRequest) (CompOffResponse, error)
	Delete(ctx context.Context, id string) error
}
