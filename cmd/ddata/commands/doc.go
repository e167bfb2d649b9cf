// Package commands implements the ddata command line tool.
//
// ddata hydrates record payloads from JSON, YAML or CBOR files, validates
// them, and moves them between the local payload store and a REST API:
//
//	ddata hydrate --model folder folder.yaml
//	ddata validate --model tag tag.json
//	ddata store put --model folder folder.json
//	ddata store list --model folder --page 2
//	ddata fetch --model notification 7f1c...
package commands
