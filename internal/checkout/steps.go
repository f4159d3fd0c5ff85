package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jcmexdev/cafe-pos/internal/billing"
	"github.com/jcmexdev/cafe-pos/internal/order"
	"github.com/jcmexdev/cafe-pos/internal/payment"
)

// Result accumulates the outputs of a checkout run while the steps execute.
type Result struct {
	Bill    billing.Bill
	Payment payment.Payment
}

// Run wires the standard three steps for the order and starts them. On
// success the returned Result carries the frozen bill and the payment; on
// failure the order has been cancelled and any charge refunded.
func Run(ctx context.Context, o *order.Order, svc *payment.Service, taxRate float64) (*Result, error) {
	res := &Result{}
	steps := []Step{
		NewBillStep(o, taxRate, res),
		NewChargeStep(svc, res),
		NewPrepareStep(o),
	}
	if err := NewOrchestrator(o.ID, steps).Start(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// --- BillStep ---

// BillStep freezes the bill for the order. Generation is a pure snapshot,
// so there is nothing to compensate.
type BillStep struct {
	order   *order.Order
	taxRate float64
	res     *Result
}

func NewBillStep(o *order.Order, taxRate float64, res *Result) *BillStep {
	return &BillStep{order: o, taxRate: taxRate, res: res}
}

func (s *BillStep) Name() string { return "Generate_Bill_Step" }

func (s *BillStep) Execute(_ context.Context) error {
	s.res.Bill = billing.Generate(s.order, uuid.NewString(), s.taxRate)
	return nil
}

func (s *BillStep) Compensate(_ context.Context) error { return nil }

// --- ChargeStep ---

// ChargeStep charges the billed total against the payment service.
type ChargeStep struct {
	svc *payment.Service
	res *Result
}

func NewChargeStep(svc *payment.Service, res *Result) *ChargeStep {
	return &ChargeStep{svc: svc, res: res}
}

func (s *ChargeStep) Name() string { return "Payment_Charge_Step" }

func (s *ChargeStep) Execute(_ context.Context) error {
	p := s.svc.Process(s.res.Bill.Total)
	if p.Status != payment.StatusPaid {
		return fmt.Errorf("payment declined for bill %s", s.res.Bill.ID)
	}
	s.res.Payment = p
	return nil
}

func (s *ChargeStep) Compensate(_ context.Context) error {
	s.svc.Refund(s.res.Payment.ID)
	return nil
}

// --- PrepareStep ---

// PrepareStep moves the order to Preparing; its compensation cancels the
// order outright.
type PrepareStep struct {
	order *order.Order
}

func NewPrepareStep(o *order.Order) *PrepareStep {
	return &PrepareStep{order: o}
}

func (s *PrepareStep) Name() string { return "Mark_Preparing_Step" }

func (s *PrepareStep) Execute(_ context.Context) error {
	return ignoreNotify(s.order.SetStatus(order.StatusPreparing))
}

func (s *PrepareStep) Compensate(_ context.Context) error {
	return ignoreNotify(s.order.SetStatus(order.StatusCancelled))
}

// ignoreNotify drops subscriber-side failures: the status change itself was
// applied, and a broken display must not unwind a completed payment.
func ignoreNotify(err error) error {
	var ne *order.NotifyError
	if errors.As(err, &ne) {
		return nil
	}
	return err
}
