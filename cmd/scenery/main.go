// Scenery extracts object placements from stage documents and placement
// manifests and writes them as records ready for a scene importer.
//
// Usage:
//
//	# Extract scenario 1 of a stage document as JSON lines
//	scenery extract Stage.xml
//
//	# Read scenario 2, drop two models, write YAML
//	scenery extract Stage.xml --scenario 2 --exclude Rock01,SkyDome --format yaml
//
//	# Check a placement manifest against its exported models
//	scenery manifest Placement.json
//
//	# Extract every document under a folder with four workers
//	scenery batch stages/ --output-dir out/ --workers 4
//
//	# Re-extract whenever a document changes
//	scenery watch Stage.xml --output-dir out/
package main

func main() {
	Execute()
}
