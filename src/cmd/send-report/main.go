// send-report delivers generated statement reports by e-mail.
package main

import (
	"flag"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/config"
	"statement-analyzer/src/pkg/delivery"
	"statement-analyzer/src/pkg/email"
	"statement-analyzer/src/pkg/money"
	"statement-analyzer/src/pkg/statement"
	"statement-analyzer/src/pkg/util"
)

func checkProviderEnv() {
	config.CheckIfEnvVarsPresent(
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_REGION", // amazon ses
		"MAILGUN_DOMAIN", "MAILGUN_API_KEY", // mailgun
		"SENDGRID_API_KEY", // sendgrid
	)
}

/*
Send the PDF report (and optionally the chart) to the recipients. With
-analysis the body carries a short spending summary.
*/
func sendReport(subprogram string, flags []string) {
	checkProviderEnv()

	// common flags
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	// custom flags
	provider := subprogramCmd.String("provider", "", "Provider to use when sending emails (default: delivery.email_provider)")
	senderAddress := subprogramCmd.String("sender", "", "Sender's address (default: delivery.email_sender)")
	recipientAddress := subprogramCmd.String("recipient", "", "Comma separated recipient addresses")
	subject := subprogramCmd.String("subject", "", "Subject of an email (default: delivery.email_subject)")
	pdfPath := subprogramCmd.String("pdf", "", "Generated PDF report")
	chartPath := subprogramCmd.String("chart", "", "Generated chart PNG, attached when set")
	analysisPath := subprogramCmd.String("analysis", "", "Analysis result JSON used for the e-mail body")
	send := subprogramCmd.Bool("send", false, "Actually send. Without it the message is only logged")

	// parse and init config
	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	config.InitializeConfig(*configPath)
	fallback(provider, delivery.Cfg.EmailProvider)
	fallback(senderAddress, delivery.Cfg.EmailSender)
	fallback(subject, delivery.Cfg.EmailSubject)

	util.RequiredFlag(senderAddress, "sender")
	util.RequiredFlag(recipientAddress, "recipient")
	util.RequiredFileFlag(pdfPath, "pdf")
	util.EnsureFlags()

	attachments := []email.Attachment{readAttachment(*pdfPath, "application/pdf")}
	if *chartPath != "" {
		attachments = append(attachments, readAttachment(*chartPath, "image/png"))
	}

	text := "Your credit card statement analysis report is attached."
	if *analysisPath != "" {
		var result statement.AnalysisResult
		e := delivery.LoadJSONFromFile(*analysisPath, &result)
		e.QuitIf(xerr.ErrorTypeError)
		text = summaryText(result)
	}
	htmlBody := "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>"
	tl.Log(tl.Verbose, palette.BlueDim, "Email body:\n```\n%s\n```", text)

	e := email.SendMessage(
		email.Provider(*provider), send,
		*senderAddress, strings.Split(*recipientAddress, ","), *subject, text, htmlBody,
		attachments,
	)
	e.QuitIf(xerr.ErrorTypeError)
}

/*
Pick provider and use it to send a test email to admin/specified address.
*/
func testProvider(subprogram string, flags []string) {
	checkProviderEnv()

	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")
	provider := subprogramCmd.String("provider", "mailgun", "Provider to use when sending emails")
	senderAddress := subprogramCmd.String("sender", "", "Sender's address")
	recipientAddress := subprogramCmd.String("recipient", "", "Recipient's address")

	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	config.InitializeConfig(*configPath)

	util.RequiredFlag(senderAddress, "sender")
	util.RequiredFlag(recipientAddress, "recipient")
	util.EnsureFlags()

	sendEmails := true
	e := email.SendMessage(
		email.Provider(*provider), &sendEmails,
		*senderAddress, strings.Split(*recipientAddress, ","), "Test subject",
		"Test message from the statement analyzer.", "<p>Test message from the statement analyzer.</p>",
		nil,
	)
	e.QuitIf(xerr.ErrorTypeError)
}

func fallback(value *string, def string) {
	if strings.TrimSpace(*value) == "" {
		*value = def
	}
}

func readAttachment(path string, contentType string) email.Attachment {
	data, err := os.ReadFile(path)
	xerr.QuitIfError(err, fmt.Sprintf("Unable to read file '%s'", path))
	return email.Attachment{Filename: filepath.Base(path), ContentType: contentType, Data: data}
}

func summaryText(result statement.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("Your credit card statement analysis report is attached.\n\n")
	fmt.Fprintf(&b, "Total spending: %s\n", money.Format(result.TotalSpending()))
	fmt.Fprintf(&b, "Reduction goal: %s\n", money.FormatReductionPercent(result.ReductionTarget.ReductionPercentage))
	fmt.Fprintf(&b, "Target spending: %s\n", money.Format(result.ReductionTarget.TargetSpending))
	fmt.Fprintf(&b, "Total projected savings: %s\n", money.Format(result.TotalProjectedSavings))
	return b.String()
}

func main() {
	if len(os.Args) < 2 {
		tl.Log(tl.Error, palette.Red, "Usage: %s", "go run ./src/cmd/send-report subprogram_name (report or test-provider)")
		os.Exit(1)
	}
	subprogram := os.Args[1]
	flags := os.Args[2:]

	switch subprogram {
	case "report":
		sendReport(subprogram, flags)
	case "test-provider":
		testProvider(subprogram, flags)
	default:
		tl.Log(tl.Error, palette.Red, "Unknown subprogram: %s", subprogram)
		os.Exit(1)
	}
}
