package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchRecord_SideHelpers(t *testing.T) {
	req := require.New(t)
	m := &MatchRecord{User1ID: "p_a", User2ID: "p_b"}

	req.True(m.HasUser("p_a"))
	req.True(m.HasUser("p_b"))
	req.False(m.HasUser("p_c"))

	other, ok := m.OtherUser("p_a")
	req.True(ok)
	req.Equal("p_b", other)

	other, ok = m.OtherUser("p_b")
	req.True(ok)
	req.Equal("p_a", other)

	_, ok = m.OtherUser("p_c")
	req.False(ok)
}
