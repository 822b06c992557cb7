package chain

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"stableTvl/internal/dex"
)

// stackReader reads get-method results positionally.
type stackReader struct {
	values []any
	pos    int
}

func newStackReader(values []any) *stackReader {
	return &stackReader{values: values}
}

func (r *stackReader) next() (any, error) {
	if r.pos >= len(r.values) {
		return nil, fmt.Errorf("stack exhausted at position %d", r.pos)
	}
	v := r.values[r.pos]
	r.pos++
	return v, nil
}

func (r *stackReader) Int() (*big.Int, error) {
	v, err := r.next()
	if err != nil {
		return nil, err
	}
	switch typed := v.(type) {
	case *big.Int:
		return typed, nil
	case int64:
		return big.NewInt(typed), nil
	case uint64:
		return new(big.Int).SetUint64(typed), nil
	default:
		return nil, fmt.Errorf("position %d: expected int, got %T", r.pos-1, v)
	}
}

func (r *stackReader) Cell() (*cell.Cell, error) {
	v, err := r.next()
	if err != nil {
		return nil, err
	}
	switch typed := v.(type) {
	case *cell.Cell:
		return typed, nil
	case *cell.Slice:
		return typed.ToCell()
	default:
		return nil, fmt.Errorf("position %d: expected cell, got %T", r.pos-1, v)
	}
}

func (r *stackReader) Address() (*address.Address, error) {
	v, err := r.next()
	if err != nil {
		return nil, err
	}
	var slice *cell.Slice
	switch typed := v.(type) {
	case *cell.Slice:
		slice = typed
	case *cell.Cell:
		slice = typed.BeginParse()
	default:
		return nil, fmt.Errorf("position %d: expected address slice, got %T", r.pos-1, v)
	}
	addr, err := slice.LoadAddr()
	if err != nil {
		return nil, fmt.Errorf("position %d: %w", r.pos-1, err)
	}
	return dex.NormalizeAddr(addr), nil
}
