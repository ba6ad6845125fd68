package testsupport

// BasicPack returns a small but complete pack covering the common test shape:
// a player line, an NPC line, and a holocall line in one scene.
func BasicPack(lang string) PackSpec {
	return PackSpec{
		Clips: []ClipSpec{
			{Key: "v/q101/0001.vo", Duration: 1.8, Character: "v", Gender: "female"},
			{Key: "judy/q101/0002.vo", Duration: 2.0, Character: "judy", Gender: "female"},
			{Key: "judy/q101/0003.vo_holocall", Duration: 1.2, Character: "judy", Gender: "female"},
		},
		Identity: map[string]IdentitySpec{
			"v/q101/0001.vo": {
				Character:     "v",
				Gender:        "female",
				FemaleResPath: "base\\localization\\" + lang + "\\[folder]\\v_f.wem",
				MaleResPath:   "base\\localization\\" + lang + "\\[folder]\\v_m.wem",
			},
			"judy/q101/0002.vo": {
				Character:     "judy",
				Gender:        "female",
				FemaleResPath: "base\\localization\\" + lang + "\\[folder]\\judy_f.wem",
			},
			"judy/q101/0003.vo_holocall": {
				Character:     "judy",
				Gender:        "female",
				FemaleResPath: "base\\localization\\" + lang + "\\[folder]\\judy_f.wem",
			},
		},
		Scenes: map[string]float64{"q101": 30.0},
		Timing: map[string]TimingSpec{
			"v/q101/0001.vo":             {Start: 0.0, Duration: 1.8},
			"judy/q101/0002.vo":          {Start: 2.0, Duration: 2.0},
			"judy/q101/0003.vo_holocall": {Start: 4.5, Duration: 1.2},
		},
		Subtitles: map[string]SubtitleSpec{
			"v/q101/0001.vo":             {Text: "Hey, Judy.", Language: lang},
			"judy/q101/0002.vo":          {Text: "Took you long enough.", Language: lang},
			"judy/q101/0003.vo_holocall": {Text: "Call me later.", Language: lang},
		},
		Lipsync: map[string][]byte{
			"judy/q101/0002.vo": []byte("anim-judy-0002-" + lang),
		},
	}
}
