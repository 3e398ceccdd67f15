package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scriptlet/internal/ir"
)

func TestDiagnosticLog_StartsEmpty(t *testing.T) {
	log := NewDiagnosticLog()
	assert.Empty(t, log.Diagnostics())
}

func TestDiagnosticLog_RecordsInOrder(t *testing.T) {
	log := NewDiagnosticLog()
	log.Record(ir.Diagnostic{InvocationID: "inv-1", Seq: 1})
	log.Record(ir.Diagnostic{InvocationID: "inv-2", Seq: 2})

	got := log.Diagnostics()
	require.Len(t, got, 2)
	assert.Equal(t, "inv-1", got[0].InvocationID)
	assert.Equal(t, "inv-2", got[1].InvocationID)

	d, ok := log.ForInvocation("inv-2")
	require.True(t, ok)
	assert.Equal(t, int64(2), d.Seq)

	_, ok = log.ForInvocation("inv-3")
	assert.False(t, ok)
}

func TestDiagnosticLog_ReturnsCopy(t *testing.T) {
	log := NewDiagnosticLog()
	log.Record(ir.Diagnostic{InvocationID: "inv-1"})

	got := log.Diagnostics()
	got[0].InvocationID = "mutated"
	assert.Equal(t, "inv-1", log.Diagnostics()[0].InvocationID)
}

func TestDiagnosticLog_Reset(t *testing.T) {
	log := NewDiagnosticLog()
	log.Record(ir.Diagnostic{InvocationID: "inv-1"})
	log.Reset()
	assert.Empty(t, log.Diagnostics())
}

func TestDiagnosticLog_ThreadSafe(t *testing.T) {
	log := NewDiagnosticLog()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			log.Record(ir.Diagnostic{InvocationID: fmt.Sprintf("inv-%d", i)})
		}(i)
	}
	wg.Wait()

	assert.Len(t, log.Diagnostics(), goroutines)
}
