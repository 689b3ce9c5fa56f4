package tui

import "charm.land/bubbles/v2/key"

// keyMap holds the board key bindings.
type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	moveLeft   key.Binding
	moveRight  key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	grabCard   key.Binding
	grabColumn key.Binding
	laneUp     key.Binding
	laneDown   key.Binding
	drop       key.Binding
	cancel     key.Binding
	cardInfo   key.Binding
}

// newKeyMap returns the default bindings.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
		moveRight:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		grabCard:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "grab card")),
		grabColumn: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab column")),
		laneUp:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "lane up")),
		laneDown:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "lane down")),
		drop:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		cardInfo:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "card info")),
	}
}

// rebind swaps a binding's trigger key while keeping its help description.
func rebind(b key.Binding, k string) key.Binding {
	if k == "" {
		return b
	}
	if k == " " || k == "space" {
		return key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", b.Help().Desc))
	}
	return key.NewBinding(key.WithKeys(k), key.WithHelp(k, b.Help().Desc))
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.grabCard, k.drop, k.cancel, k.cardInfo, k.toggleHelp, k.quit,
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.grabCard, k.grabColumn, k.laneUp, k.laneDown, k.drop, k.cancel},
		{k.cardInfo, k.toggleHelp, k.quit},
	}
}
