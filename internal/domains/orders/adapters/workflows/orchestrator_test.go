package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/product-order-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/product-order-api/internal/domains/orders/domain"
	"github.com/Apurer/product-order-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/product-order-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/product-order-api/internal/platform/temporal/workflows/orders"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

type fakeRun struct {
	client.WorkflowRun
	order *ordersdomain.Order
	err   error
}

func (r *fakeRun) Get(_ context.Context, valuePtr interface{}) error {
	if r.err != nil {
		return r.err
	}
	*(valuePtr.(*ordersdomain.Order)) = *r.order
	return nil
}

type fakeStarter struct {
	options   client.StartWorkflowOptions
	args      []interface{}
	run       *fakeRun
	startErr  error
	joinedID  string
	joinedRun string
}

func (s *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, _ interface{}, args ...interface{}) (client.WorkflowRun, error) {
	s.options = options
	s.args = args
	if s.startErr != nil {
		return nil, s.startErr
	}
	return s.run, nil
}

func (s *fakeStarter) GetWorkflow(_ context.Context, workflowID string, runID string) client.WorkflowRun {
	s.joinedID = workflowID
	s.joinedRun = runID
	return s.run
}

type inlineService struct {
	ports.Service
	input ports.CloseOrderInput
}

func (s *inlineService) RequestQuoteAndClose(_ context.Context, input ports.CloseOrderInput) (*ordersdomain.Order, error) {
	s.input = input
	return &ordersdomain.Order{ID: input.OrderID, Status: ordersdomain.StatusClosed}, nil
}

func TestTemporalOrderWorkflowsStartsPricingWorkflow(t *testing.T) {
	starter := &fakeStarter{run: &fakeRun{order: &ordersdomain.Order{ID: 3, Status: ordersdomain.StatusClosed, Version: 2}}}
	orchestrator := NewTemporalOrderWorkflows(starter)

	order, err := orchestrator.QuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: 3, Caller: auth.Caller{Identity: "alice"}})
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusClosed, order.Status)
	assert.Equal(t, orderworkflows.OrderPricingTaskQueue, starter.options.TaskQueue)
	assert.True(t, strings.HasPrefix(starter.options.ID, "order-close-3-"))
	require.Len(t, starter.args, 1)
	input := starter.args[0].(orderworkflows.QuoteAndCloseWorkflowInput)
	assert.Equal(t, "alice", input.Command.Caller.Identity)
}

func TestTemporalOrderWorkflowsRestoresErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		kind   string
		target error
	}{
		{"forbidden", ordersapp.KindForbidden, auth.ErrForbidden},
		{"already closed", ordersapp.KindAlreadyClosed, ordersdomain.ErrAlreadyClosed},
		{"directory", ordersapp.KindDirectoryLookupFailed, ordersapp.ErrDirectoryLookupFailed},
		{"conflict", ordersapp.KindConcurrentModification, ports.ErrConcurrentModification},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failure := temporal.NewNonRetryableApplicationError("boom", tc.kind, nil, orderactivities.FailureDetail{Message: "boom"})
			orchestrator := NewTemporalOrderWorkflows(&fakeStarter{run: &fakeRun{err: failure}})

			_, err := orchestrator.QuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: 1})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
			assert.Equal(t, "boom", err.Error())
		})
	}
}

func TestTemporalOrderWorkflowsRestoresQuoteRejection(t *testing.T) {
	failure := temporal.NewNonRetryableApplicationError("rejected", ordersapp.KindQuoteRejected, nil,
		orderactivities.FailureDetail{Message: "rejected", CarrierCode: "-888", CarrierMessage: "sistema indisponivel"})
	orchestrator := NewTemporalOrderWorkflows(&fakeStarter{run: &fakeRun{err: failure}})

	_, err := orchestrator.QuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: 1})
	var rejected *ordersapp.QuoteRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "-888", rejected.Code)
	assert.Equal(t, "sistema indisponivel", rejected.Message)
}

func TestTemporalOrderWorkflowsJoinsRunningWorkflow(t *testing.T) {
	starter := &fakeStarter{
		run:      &fakeRun{order: &ordersdomain.Order{ID: 5, Status: ordersdomain.StatusClosed}},
		startErr: serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1"),
	}

	order, err := NewTemporalOrderWorkflows(starter).QuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(5), order.ID)
	assert.Equal(t, starter.options.ID, starter.joinedID)
	assert.Equal(t, "run-1", starter.joinedRun)
}

func TestTemporalOrderWorkflowsRequiresClient(t *testing.T) {
	_, err := NewTemporalOrderWorkflows(nil).QuoteAndClose(context.Background(), ports.CloseOrderInput{})
	assert.Error(t, err)
}

func TestInlineOrderWorkflowsDelegatesToService(t *testing.T) {
	service := &inlineService{}
	version := int64(4)

	order, err := NewInlineOrderWorkflows(service).QuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: 9, IfMatchVersion: &version})
	require.NoError(t, err)
	assert.Equal(t, int64(9), order.ID)
	require.NotNil(t, service.input.IfMatchVersion)
	assert.Equal(t, int64(4), *service.input.IfMatchVersion)
}
