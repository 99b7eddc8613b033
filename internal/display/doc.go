// Package display provides terminal output for user-facing warnings and
// dry-run plan listings.
//
// # Warning Messages
//
// Display warnings with optional components:
//
//	warning := display.Warning{
//	    Title:      "No files matched",
//	    Message:    "No .ipynb files were found in the given inputs.",
//	    Files:      []string{"notebooks/"},
//	    Suggestion: "Pass --recursive to search subdirectories.",
//	}
//	warning.Display(os.Stderr)
//
// Or use the factories WarnNoFilesMatched and WarnConverterMissing.
//
// # Plan Listings
//
// Use PlanListing to print what a dry run would do:
//
//	listing := display.NewPlanListing(os.Stdout, len(entries))
//	listing.Start(direction)
//	listing.Convert(task)      // file that would be converted
//	listing.Decided(result)    // file skipped or failed before conversion
//	listing.Complete()
//
// Colors come from fatih/color and are disabled automatically when output is
// not a terminal or NO_COLOR is set. All functions accept io.Writer.
package display
