package node

import (
	"context"
	"io"

	"github.com/kvoloboi/staticinfo/internal/domain"
)

type RecordSender interface {
	Send(ctx context.Context, r domain.Record) error
	io.Closer
}
