package studio

import "strings"

// Template is a fixed video style the Templates view offers.
type Template struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	StylePrompt  string `json:"stylePrompt"`
	ThumbnailURL string `json:"thumbnail"`
}

// Templates is the built-in template catalog.
var Templates = []Template{
	{
		Name:         "Cinematic Vlog",
		Description:  "Dramatic, smooth shots with high contrast and teal-orange color grading.",
		StylePrompt:  "Create a cinematic vlog style video. Use slow, sweeping camera movements, a shallow depth of field, and a teal and orange color grade. The mood should be thoughtful and epic.",
		ThumbnailURL: "https://images.pexels.com/photos/1040881/pexels-photo-1040881.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	},
	{
		Name:         "Sci-Fi Trailer",
		Description:  "Futuristic, high-tech visuals with neon glows and digital glitch effects.",
		StylePrompt:  "Generate a high-energy sci-fi trailer. Include futuristic cityscapes, neon lighting, lens flares, and quick cuts. Use digital glitch transitions and an intense, suspenseful tone.",
		ThumbnailURL: "https://images.pexels.com/photos/3861969/pexels-photo-3861969.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	},
	{
		Name:         "Retro VHS",
		Description:  "A nostalgic, 90s home video look with tape grain and tracking lines.",
		StylePrompt:  "Produce a video with a retro VHS aesthetic. The footage should have a 4:3 aspect ratio, visible scan lines, color bleeding, a soft focus, and a timestamp in the corner. Emulate the look of an old camcorder.",
		ThumbnailURL: "https://images.pexels.com/photos/7130498/pexels-photo-7130498.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	},
	{
		Name:         "Viral TikTok Short",
		Description:  "Fast-paced, engaging content with trending music and quick text overlays.",
		StylePrompt:  "Make a vertical, fast-paced video suitable for TikTok or Reels. Use quick cuts, punchy zoom effects, and engaging text captions that appear on screen. The energy should be high and attention-grabbing.",
		ThumbnailURL: "https://images.pexels.com/photos/7674643/pexels-photo-7674643.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	},
}

// FindTemplate looks a template up by name, ignoring case.
func FindTemplate(name string) (Template, bool) {
	for _, t := range Templates {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Template{}, false
}

// PromptIdeas are starter prompts offered next to the prompt fields.
var PromptIdeas = []string{
	"Change my shirt to a red jacket",
	"Add a superhero cape",
	"Make the background a cyberpunk city",
	"Turn me into a game character",
	"Surprised face with exploding background",
	`Add glowing text: "INSANE!"`,
	"Clone MrBeast thumbnail style",
	"A dragon reading a book",
}
