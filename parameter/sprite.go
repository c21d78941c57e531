package parameter

// Face Atlas Layout
const (
	// AtlasRows is the number of frame rows in the face atlas
	AtlasRows = 9

	// AtlasColumns is the number of frame columns in the face atlas
	AtlasColumns = 20

	// SpriteFPS is the default face animation rate
	SpriteFPS = 12

	// AtlasPath is the logical path of the face atlas texture
	AtlasPath = "sprites/face_atlas.png"

	// FaceMaterialName is the material the atlas binds to
	FaceMaterialName = "Material_Screen"

	// FaceMaterialParent is the node owning the face material
	FaceMaterialParent = "Body"
)
