// Package io reads batch scenario files and writes calculation reports.
//
// # Scenario Files
//
// A scenario file lists named calculations. YAML, TOML and JSON are accepted;
// [FormatFromPath] picks the decoder from the file extension.
//
//	# scenarios.yaml
//	scenarios:
//	  - name: baseline prevalence
//	    design: prevalence
//	    params:
//	      prevalence: 50
//	      precision: 5
//	  - name: cohort, 2 unexposed per exposed
//	    design: cohort
//	    params:
//	      exposed_risk: 20
//	      unexposed_risk: 10
//	      ratio: 2
//
// The same file in TOML uses an array of tables:
//
//	[[scenarios]]
//	name = "baseline prevalence"
//	design = "prevalence"
//	[scenarios.params]
//	prevalence = 50
//	precision = 5
//
// Parameters omitted from a scenario keep the defaults of its design
// ([design.DefaultParams]), so a scenario only needs the values it changes.
// Design names accept the aliases understood by [design.Parse].
//
// # Import
//
// Use [ImportScenarios] to read a file by path, or [ReadScenarios] to read
// from any io.Reader in a given [Format]:
//
//	scenarios, err := io.ImportScenarios("scenarios.yaml")
//
// Errors name the offending scenario by index and name.
//
// # Export
//
// [WriteResults] encodes a [Report] (one [ScenarioResult] per scenario,
// including per-scenario failures) as indented JSON; [ExportResults] writes
// it to a file.
package io
