package gemini

import "os"

// Model IDs
//
// | Model Name                  | API Model ID                  | Use Case                      |
// |-----------------------------|-------------------------------|-------------------------------|
// | Imagen 4                    | imagen-4.0-generate-001       | Text-to-image                 |
// | Gemini 2.5 Flash Image      | gemini-2.5-flash-image        | Image edit / compose          |
// | Gemini 3 Pro Image          | gemini-3-pro-image-preview    | Advanced image edit           |
// | Veo 3.1 Fast                | veo-3.1-fast-generate-preview | Text/image-to-video           |
// | Veo 3.1                     | veo-3.1-generate-preview      | Higher quality video          |
const (
	ModelImagen4          = "imagen-4.0-generate-001"
	ModelGemini25Image    = "gemini-2.5-flash-image"
	ModelGemini3ProImage  = "gemini-3-pro-image-preview"
	ModelVeo31Fast        = "veo-3.1-fast-generate-preview"
	ModelVeo31            = "veo-3.1-generate-preview"
	ModelValidationProbe  = "gemini-2.5-flash-lite"
	DefaultImageModelName = ModelImagen4
	DefaultEditModelName  = ModelGemini25Image
	DefaultVideoModelName = ModelVeo31Fast
)

// Models holds the model ID used for each provider call.
type Models struct {
	Image string
	Edit  string
	Video string
}

// ModelsFromEnv resolves each model from its environment override
// (STUDIO_IMAGE_MODEL, STUDIO_EDIT_MODEL, STUDIO_VIDEO_MODEL), falling back
// to the defaults above.
func ModelsFromEnv() Models {
	return Models{
		Image: envOr("STUDIO_IMAGE_MODEL", DefaultImageModelName),
		Edit:  envOr("STUDIO_EDIT_MODEL", DefaultEditModelName),
		Video: envOr("STUDIO_VIDEO_MODEL", DefaultVideoModelName),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
