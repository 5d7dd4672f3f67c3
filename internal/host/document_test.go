package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoc_InsertBeforeFirstScript(t *testing.T) {
	d := NewDoc()
	a := NewElement("script")
	a.Src = "a.js"
	b := NewElement("SCRIPT")
	b.Src = "b.js"
	d.Append(a)
	d.Append(b)

	c := d.CreateElement("script")
	c.Src = "c.js"
	d.InsertBefore(c, d.ElementsByTag("script")[0])

	scripts := d.ElementsByTag("script")
	require.Len(t, scripts, 3)
	assert.Equal(t, []string{"c.js", "a.js", "b.js"}, []string{scripts[0].Src, scripts[1].Src, scripts[2].Src})
}

func TestDoc_InsertBeforeNilAppends(t *testing.T) {
	d := NewDoc()
	d.Append(NewElement("script"))
	el := NewElement("script")
	d.InsertBefore(el, nil)
	assert.Same(t, el, d.ElementsByTag("script")[1])
}

func TestDoc_ElementsByTagFilters(t *testing.T) {
	d := NewDoc()
	d.Append(NewElement("link"))
	d.Append(NewElement("script"))
	assert.Len(t, d.ElementsByTag("script"), 1)
	assert.Equal(t, 2, d.Len())
}

func TestElement_AttrsCaseInsensitive(t *testing.T) {
	el := NewElement("script")
	el.SetAttr("Data-Lazy", "no")
	v, ok := el.Attr("data-lazy")
	assert.True(t, ok)
	assert.Equal(t, "no", v)

	_, ok = el.Attr("missing")
	assert.False(t, ok)
}

func TestElement_DispatchOrder(t *testing.T) {
	el := NewElement("script")
	var got []int
	el.AddEventListener(EventLoad, func() { got = append(got, 1) })
	el.AddEventListener(EventLoad, func() { got = append(got, 2) })
	el.AddEventListener(EventError, func() { got = append(got, 99) })

	el.Dispatch(EventLoad)
	assert.Equal(t, []int{1, 2}, got)
}
