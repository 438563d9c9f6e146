package procmeta

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/proton-handler/internal/procscan"
)

func TestManager_SetAndGet(t *testing.T) {
	m := NewManager()

	attrs := NewAttributes(procscan.Handle{PID: 1234}, []byte("FOO=bar\x00"), []byte("echo\x00hello\x00"))
	m.Set(1234, attrs)

	got := m.Get(1234)
	require.NotNil(t, got)
	assert.Equal(t, "FOO=bar", got.EnvironText)
	assert.Equal(t, 1, m.Len())
}

func TestManager_GetNonExistent(t *testing.T) {
	m := NewManager()

	assert.Nil(t, m.Get(9999))
	assert.NoError(t, m.GetError(9999))
	assert.Nil(t, m.GetIssues(9999))
	assert.Equal(t, 0, m.Len())
}

func TestManager_SetError(t *testing.T) {
	m := NewManager()

	m.SetError(1234, errors.New("permission denied"))

	got := m.GetError(1234)
	require.Error(t, got)
	assert.Equal(t, "permission denied", got.Error())
	assert.Nil(t, m.Get(1234))
}

func TestManager_AddIssues(t *testing.T) {
	m := NewManager()

	m.AddIssues(1234, []string{"issue 1"})
	m.AddIssues(1234, nil)
	m.AddIssues(1234, []string{"issue 2"})

	assert.Equal(t, []string{"issue 1", "issue 2"}, m.GetIssues(1234))
}

func TestManager_Concurrent(_ *testing.T) {
	m := NewManager()

	done := make(chan bool)

	go func() {
		for i := int32(0); i < 100; i++ {
			m.Set(i, &Attributes{})
			m.AddIssues(i, []string{"issue"})
		}
		done <- true
	}()

	go func() {
		for i := int32(0); i < 100; i++ {
			_ = m.Get(i)
			_ = m.GetIssues(i)
		}
		done <- true
	}()

	<-done
	<-done
}
