package components

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/commander-tracker/internal/model"
)

// PlayerPanel renders one player's counters and the controls that change them
func PlayerPanel(game *model.Game, player *model.Player) templ.Component {
	return build(func(b *strings.Builder) {
		writePlayerPanel(b, game, player)
	})
}

func writePlayerPanel(b *strings.Builder, game *model.Game, player *model.Player) {
	pid := itoa(int(player.ID))
	base := "/games/" + string(game.ID)

	classes := []string{"player-panel"}
	if game.Started && game.ActivePlayer == player.ID {
		classes = append(classes, "active")
	}
	if player.HasLost() {
		classes = append(classes, "lost")
	}

	b.WriteString(`<section class="` + strings.Join(classes, " ") + `" id="player-` + pid + `" data-player="` + pid + `"`)
	if player.BackgroundImage != "" {
		b.WriteString(` style="background-image: url('` + esc(player.BackgroundImage) + `')"`)
	}
	b.WriteString(`>`)
	b.WriteString(`<h2 class="player-name">` + esc(player.Name) + `</h2>`)

	writeCommanderArt(b, game.Commanders[player.ID])

	b.WriteString(`<div class="life-total"><span class="life">` + itoa(player.Life) + `</span></div>`)
	actionForm(b, base+"/life", "life-controls", map[string]string{"player_id": pid}, deltaButtons(-5, -1, 1, 5)...)
	writeLifeEdit(b, base+"/life", pid, player.Life)

	b.WriteString(`<div class="poison-counter`)
	if player.IsPoisoned() {
		b.WriteString(` poisoned`)
	}
	b.WriteString(`">Poison <span class="poison">` + itoa(player.PoisonCounters) + `</span></div>`)
	actionForm(b, base+"/poison", "poison-controls", map[string]string{"player_id": pid}, deltaButtons(-1, 1)...)

	b.WriteString(`<ul class="commander-damage-list">`)
	for i := range game.Players {
		opponent := &game.Players[i]
		if opponent.ID == player.ID {
			continue
		}
		oid := itoa(int(opponent.ID))
		b.WriteString(`<li class="commander-damage`)
		if player.IsLethalCommanderDamage(opponent.ID) {
			b.WriteString(` lethal`)
		}
		b.WriteString(`" data-opponent="` + oid + `">`)
		b.WriteString(`<span class="label">From ` + esc(opponent.Name) + `</span> `)
		b.WriteString(`<span class="value">` + itoa(player.CommanderDamageFrom(opponent.ID)) + `</span>`)
		actionForm(b, base+"/commander-damage", "damage-controls",
			map[string]string{"player_id": pid, "opponent_id": oid}, deltaButtons(-1, 1)...)
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)

	writeCommanderSearch(b, base+"/commander", pid)

	if player.HasLost() {
		b.WriteString(`<p class="lost-marker">Eliminated</p>`)
	}
	b.WriteString(`</section>`)
}

// writeLifeEdit writes the form for typing a life total directly
func writeLifeEdit(b *strings.Builder, action, pid string, life int) {
	b.WriteString(`<form method="post" action="` + esc(action) + `" class="life-edit"`)
	b.WriteString(` hx-post="` + esc(action) + `" hx-target="#` + BoardID + `" hx-swap="innerHTML">`)
	b.WriteString(`<input type="hidden" name="player_id" value="` + pid + `">`)
	b.WriteString(`<input type="number" name="value" min="0" value="` + itoa(max(life, 0)) + `" aria-label="Life total">`)
	b.WriteString(`<button type="submit">Set</button>`)
	b.WriteString(`</form>`)
}

func writeCommanderArt(b *strings.Builder, assignment model.CommanderAssignment) {
	if assignment.Main == nil && assignment.Partner == nil {
		return
	}
	b.WriteString(`<div class="commanders">`)
	for _, slot := range []model.CommanderSlot{model.SlotMain, model.SlotPartner} {
		c := assignment.Get(slot)
		if c == nil {
			continue
		}
		b.WriteString(`<figure class="commander ` + string(slot) + `">`)
		if c.Image != "" {
			b.WriteString(`<img class="commander-art" src="` + esc(c.Image) + `" alt="` + esc(c.Name) + `">`)
		}
		b.WriteString(`<figcaption>` + esc(c.Name) + `</figcaption></figure>`)
	}
	b.WriteString(`</div>`)
}
