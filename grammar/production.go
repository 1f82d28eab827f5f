package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/nihei9/ll1kit/grammar/symbol"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	seq := lhs.Byte()
	for _, sym := range rhs {
		seq = append(seq, sym.Byte()...)
	}
	return productionID(sha256.Sum256(seq))
}

type productionNum uint16

const (
	productionNumNil = productionNum(0)
	productionNumMin = productionNum(1)
)

func (n productionNum) Int() int {
	return int(n)
}

type production struct {
	id     productionID
	num    productionNum
	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
		if sym.IsEOF() {
			return nil, fmt.Errorf("a symbol of RHS must not be the end marker; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		id:     genProductionID(lhs, rhs),
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

func (p *production) equals(q *production) bool {
	return q.id == p.id
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

// productionSet keeps productions in declaration order. The order decides production numbers,
// and production numbers decide which production wins a conflicting table cell.
type productionSet struct {
	lhs2Prods map[symbol.Symbol][]*production
	id2Prod   *linkedhashmap.Map
	num       productionNum
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*production{},
		id2Prod:   linkedhashmap.New(),
		num:       productionNumMin,
	}
}

func (ps *productionSet) append(prod *production) bool {
	if _, ok := ps.id2Prod.Get(prod.id); ok {
		return false
	}

	prod.num = ps.num
	ps.num++

	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	ps.id2Prod.Put(prod.id, prod)

	return true
}

func (ps *productionSet) findByID(id productionID) (*production, bool) {
	v, ok := ps.id2Prod.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*production), true
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) findByNum(num productionNum) (*production, bool) {
	if num < productionNumMin || num.Int() > ps.id2Prod.Size() {
		return nil, false
	}
	return ps.id2Prod.Values()[num.Int()-productionNumMin.Int()].(*production), true
}

// getAllProductions returns all productions in declaration order.
func (ps *productionSet) getAllProductions() []*production {
	vals := ps.id2Prod.Values()
	prods := make([]*production, 0, len(vals))
	for _, v := range vals {
		prods = append(prods, v.(*production))
	}
	return prods
}

func (ps *productionSet) count() int {
	return ps.id2Prod.Size()
}
