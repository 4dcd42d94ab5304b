package main

import (
	"fmt"

	"github.com/unimatric/admissions/core/admission"
)

// score prints the assessment of a transcript and its supplementary options.
func (cli *commandLine) score(sub admission.Submission) error {
	if err := sub.Validate(cli.validate); err != nil {
		return err
	}

	a := cli.admSvc.Assess(sub)
	fmt.Fprintln(cli.out, admission.Describe(a))
	for _, opt := range a.Supplementary {
		status := "not eligible"
		if opt.Verdict.Eligible {
			status = "eligible"
		}
		fmt.Fprintf(cli.out, "  %s: %d credits, %s\n", opt.Department.ID, opt.Verdict.CreditCount, status)
	}
	return nil
}
