package template

// Dump is a parsed template dump file.
type Dump struct {
	// SystemID is the system identifier of the module the template came from
	SystemID uint16

	// Capacity is the library capacity of the source module
	Capacity uint16

	// Data is the raw character file contents
	Data []byte
}

// Meta describes the source module recorded in a dump header.
type Meta struct {
	// SystemID is the module system identifier (from ReadSystemParams)
	SystemID uint16

	// Capacity is the module library capacity
	Capacity uint16
}
