package player

// Texts is what a connection is shown between answering the terminal
// questions and entering the world. Text may carry formatter tags.
type Texts struct {
	Banner      string
	AsciiBanner string
	Welcome     string
	Spawn       string
	Motd        string
}

const (
	defaultBanner = "<bold>Welcome to the MUD<reset>"

	defaultAsciiBanner = `<cyan>
  __  __ _   _ ____
 |  \/  | | | |  _ \
 | |\/| | | | | | | |
 | |  | | |_| | |_| |
 |_|  |_|\___/|____/
<reset>`

	defaultWelcome = "Hello, <player>. You are a visitor here until you register or log in."
	defaultSpawn   = "The world takes shape around you."
)

func (t Texts) withDefaults() Texts {
	if t.Banner == "" {
		t.Banner = defaultBanner
	}
	if t.AsciiBanner == "" {
		t.AsciiBanner = defaultAsciiBanner
	}
	if t.Welcome == "" {
		t.Welcome = defaultWelcome
	}
	if t.Spawn == "" {
		t.Spawn = defaultSpawn
	}
	return t
}
