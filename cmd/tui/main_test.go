package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credikhaata/cmd/tui/internal/view"
)

func TestToastSupersession(t *testing.T) {
	m := model{styles: view.DarkStyles()}

	updated, cmd := m.Update(view.ToastMsg{Text: "first", Kind: view.ToastSuccess})
	m = updated.(model)
	require.NotNil(t, cmd)
	firstGen := m.toastGen

	updated, _ = m.Update(view.ToastMsg{Text: "second", Kind: view.ToastError})
	m = updated.(model)

	// The first toast's expiry tick arrives after it was replaced; the
	// newer toast must survive it.
	updated, _ = m.Update(clearToastMsg{gen: firstGen})
	m = updated.(model)
	assert.Equal(t, "second", m.toast)

	updated, _ = m.Update(clearToastMsg{gen: m.toastGen})
	m = updated.(model)
	assert.Empty(t, m.toast)
}
