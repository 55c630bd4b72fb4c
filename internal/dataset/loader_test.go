package dataset

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainDataset "hrpulse/domain/dataset"
	"hrpulse/internal"
	"hrpulse/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTableSource implements ports.TableSource
type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) Name() string {
	return "mock"
}

func (m *MockTableSource) ReadTable(ctx context.Context) (*domainDataset.RawTable, error) {
	args := m.Called(ctx)
	raw, _ := args.Get(0).(*domainDataset.RawTable)
	return raw, args.Error(1)
}

func scenarioRaw() *domainDataset.RawTable {
	return &domainDataset.RawTable{
		Source:  "mock",
		Headers: []string{"Department", "Age", "Attrition", "Badge"},
		Rows: [][]string{
			{"A", "30", "Yes", "x"},
			{"A", "40", "No", "y"},
			{"B", "25", "Yes", "z"},
		},
	}
}

func TestLoader_ReadsSourceOnce(t *testing.T) {
	source := new(MockTableSource)
	source.On("ReadTable", mock.Anything).Return(scenarioRaw(), nil).Once()

	loader := NewLoader(source, testkit.LooseSchema(), internal.Discard())
	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 3, first.Len())
	assert.Equal(t, "mock", loader.Source())
	_, ok := first.Kind("Badge")
	assert.False(t, ok, "unknown columns are dropped")
	source.AssertNumberOfCalls(t, "ReadTable", 1)
}

func TestLoader_ConcurrentFirstLoad(t *testing.T) {
	source := new(MockTableSource)
	source.On("ReadTable", mock.Anything).Return(scenarioRaw(), nil)

	loader := NewLoader(source, testkit.LooseSchema(), internal.Discard())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := loader.Load(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	source.AssertNumberOfCalls(t, "ReadTable", 1)
}

func TestLoader_MemoizesFailure(t *testing.T) {
	source := new(MockTableSource)
	source.On("ReadTable", mock.Anything).Return(nil, errors.New("connection refused"))

	loader := NewLoader(source, domainDataset.EmployeeSchema, internal.Discard())
	_, err := loader.Load(context.Background())
	var le *domainDataset.LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, domainDataset.ErrSourceMissing)

	_, again := loader.Load(context.Background())
	assert.Same(t, err, again)
	source.AssertNumberOfCalls(t, "ReadTable", 1)
}

func TestLoader_SchemaMismatch(t *testing.T) {
	source := new(MockTableSource)
	source.On("ReadTable", mock.Anything).Return(scenarioRaw(), nil)

	_, err := NewLoader(source, domainDataset.EmployeeSchema, internal.Discard()).Load(context.Background())
	assert.ErrorIs(t, err, domainDataset.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "MonthlyIncome")
}

func TestLoader_PassesLoadErrorThrough(t *testing.T) {
	want := domainDataset.NewLoadError("EA.csv", domainDataset.ErrMalformed, "line 3", nil)
	source := new(MockTableSource)
	source.On("ReadTable", mock.Anything).Return(nil, want)

	_, err := NewLoader(source, domainDataset.EmployeeSchema, internal.Discard()).Load(context.Background())
	assert.Same(t, want, err)
}
