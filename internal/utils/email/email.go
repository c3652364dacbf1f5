package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ilfiscal/fiscal-data-service/internal/config"
	"github.com/ilfiscal/fiscal-data-service/internal/health"
	"github.com/ilfiscal/fiscal-data-service/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendHealthReport sends a formatted fiscal health report for one entity
func (s *Sender) SendHealthReport(to string, result *models.FiscalHealthResult) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Fiscal Health Report: %s", result.UnitName)

	m := result.Metrics
	body := fmt.Sprintf("Fiscal Health Report for %s (code %s)\nGenerated %s\n\n",
		result.UnitName, result.Code, time.Now().Format("2006-01-02"))
	body += indicatorLine("Operating Margin", percentValue(m.OperatingMargin), m.OperatingMarginRating)
	body += indicatorLine("Fund Balance Ratio", percentValue(m.FundBalanceRatio), m.FundBalanceRating)
	body += indicatorLine("Debt Per Capita", dollarValue(m.DebtPerCapita), m.DebtRating)
	body += indicatorLine("Pension Funded Ratio", rawPercentValue(m.PensionFundedRatio), m.PensionRating)
	body += fmt.Sprintf("\nRaw figures:\n"+
		"  Total revenue:            $%s\n"+
		"  Total expenditure:        $%s\n"+
		"  Unassigned fund balance:  $%s\n"+
		"  Total debt:               $%s\n",
		result.RawValues.TotalRevenue.StringFixed(2),
		result.RawValues.TotalExpenditure.StringFixed(2),
		result.RawValues.UnassignedFundBalance.StringFixed(2),
		result.RawValues.TotalDebt.StringFixed(2))
	body += "\nSource: Illinois local government Annual Financial Report filings.\n"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send health report to %s: %v", to, err)
		return fmt.Errorf("failed to send health report: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func indicatorLine(name, value string, rating *health.Rating) string {
	if rating == nil {
		return fmt.Sprintf("  %-22s not available\n", name+":")
	}
	return fmt.Sprintf("  %-22s %s (%s)\n", name+":", value, *rating)
}

// percentValue formats a 0-1 ratio as a percentage
func percentValue(v decimal.NullDecimal) string {
	if !v.Valid {
		return "n/a"
	}
	return v.Decimal.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}

// rawPercentValue formats a ratio already expressed in percent
func rawPercentValue(v decimal.NullDecimal) string {
	if !v.Valid {
		return "n/a"
	}
	return v.Decimal.Round(2).String() + "%"
}

func dollarValue(v decimal.NullDecimal) string {
	if !v.Valid {
		return "n/a"
	}
	return "$" + v.Decimal.Round(2).String()
}
