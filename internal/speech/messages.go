package speech

import "fmt"

// Messages is the fixed prompt catalogue.
type Messages struct {
	Launch          string `json:"launch"`
	LaunchShort     string `json:"launch_short"`
	LaunchReprompt  string `json:"launch_reprompt"`
	NowPlayingHint  string `json:"now_playing_hint"`
	NowPlayingShort string `json:"now_playing_reprompt"`
	DoNotUnderstand string `json:"do_not_understand"`
	Fallback        string `json:"fallback"`
	Error           string `json:"error"`
	Help            string `json:"help"`
	Reprompt        string `json:"reprompt"`
	Goodbye         string `json:"goodbye"`
}

// Messages returns the catalogue for the renderer's station.
func (r *Renderer) Messages() Messages {
	s := r.station
	return Messages{
		Launch: fmt.Sprintf("%s is a reading service for the blind and print disabled. You can ask me to play the live stream, "+
			"play the kansas city stream, play on demand, tell you what is being read right now, or what is the %s program schedule.", s, s),
		LaunchShort: fmt.Sprintf("Welcome back to %s. You can ask me to play the live stream, play the Kansas City stream, "+
			"play on demand, tell you what is being read right now, or what is the %s program schedule.", s, s),
		LaunchReprompt: fmt.Sprintf("Would you like me to play the %s stream, the kansas city stream, play on-demand, "+
			"tell you what is playing right now, or read the program schedule?", s),
		NowPlayingHint: `Say "Play the live stream" if you would like to listen to this program, ` +
			`or ask me to play on-demand if you would like to listen to a different program`,
		NowPlayingShort: `Say "Play the live stream" if you would like to listen to this program.`,
		DoNotUnderstand: "I'm sorry but I don't understand.",
		Fallback:        "Sorry, I don't know about that. Please try again.",
		Error:           "Sorry, there was an error. Please try again.",
		Help: fmt.Sprintf(`You can say "listen to %s," "play the Kansas City stream," "play on demand," `+
			`"what is %s playing right now," or "what is the %s program schedule." Which would you like me to do?`, s, s, s),
		Reprompt: "If you're not sure what to do next try asking for help. If you want to leave just say stop. " +
			"What would you like to do next?",
		Goodbye: "Goodbye!",
	}
}
