package catalog

import "time"

// MaterialType classifies the ware of a material group.
type MaterialType string

const (
	MaterialFineWare    MaterialType = "fine-ware"
	MaterialCoarseWare  MaterialType = "coarse-ware"
	MaterialCookingWare MaterialType = "cooking-ware"
	MaterialAmphora     MaterialType = "amphora"
	MaterialLamp        MaterialType = "lamp"
)

// MaterialTypes lists every recognized ware classification.
var MaterialTypes = []MaterialType{
	MaterialFineWare,
	MaterialCoarseWare,
	MaterialCookingWare,
	MaterialAmphora,
	MaterialLamp,
}

// ContainerType describes the physical storage of a material container.
type ContainerType string

const (
	ContainerBag  ContainerType = "Bag"
	ContainerBox  ContainerType = "Box"
	ContainerTray ContainerType = "Tray"
)

// Project is the root of the recording hierarchy.
type Project struct {
	DocID       string    `json:"docId"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Password    string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// StudyArea is a surveyed zone within a project. Its ID is a
// five-digit zero-padded string allocated in steps of 1000.
type StudyArea struct {
	DocID     string    `json:"docId"`
	ProjectID string    `json:"projectId"`
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

// StratUnit is a stratigraphic unit within a study area. Its ID is an
// integer string seeded at studyAreaID*100.
type StratUnit struct {
	DocID       string    `json:"docId"`
	ProjectID   string    `json:"projectId"`
	StudyAreaID string    `json:"studyAreaId"`
	ID          string    `json:"id"`
	Typology    string    `json:"typology"`
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Container is a physical container of excavated material, identified
// by a letter suffix on its stratigraphic unit ("5001-A").
type Container struct {
	DocID         string        `json:"docId"`
	ProjectID     string        `json:"projectId"`
	StudyAreaID   string        `json:"studyAreaId"`
	StratUnitID   string        `json:"stratUnitId"`
	ID            string        `json:"id"`
	ContainerType ContainerType `json:"containerType"`
	MaterialType  string        `json:"materialType"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// MaterialGroup aggregates sherds sharing a material identifier and ware.
// TotalWeight and SherdCount are running totals maintained exclusively
// through atomic increments.
type MaterialGroup struct {
	DocID        string       `json:"docId"`
	ProjectID    string       `json:"projectId"`
	StudyAreaID  string       `json:"studyAreaId"`
	StratUnitID  string       `json:"stratUnitId"`
	MaterialID   string       `json:"materialId"`
	MaterialType MaterialType `json:"materialType"`
	Label        string       `json:"label"`
	TotalWeight  float64      `json:"totalWeight"`
	SherdCount   int64        `json:"sherdCount"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ValidMaterialType reports whether the value is a recognized ware.
func ValidMaterialType(v string) bool {
	for _, mt := range MaterialTypes {
		if string(mt) == v {
			return true
		}
	}
	return false
}
