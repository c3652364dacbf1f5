package treasury

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/ilfiscal/fiscal-data-service/internal/config"
)

// Yield is the latest point of the daily yield curve
type Yield struct {
	Date    string  `json:"date"`
	TenYear float64 `json:"ten_year_yield"`
}

// Client handles integration with the U.S. Treasury interest rate feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new Treasury client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.TreasuryURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetchFeed downloads the yield curve XML for the current year
func (c *Client) fetchFeed() ([]byte, error) {
	url := fmt.Sprintf("%s?data=daily_treasury_yield_curve&field_tdr_date_value=%d",
		c.url, time.Now().Year())

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("Treasury XML response: %d bytes", len(body))
	return body, nil
}

// parseFeed extracts the most recent 10-year yield from the Atom feed.
// Entries arrive in date order; the last m:properties element is the
// latest business day.
func (c *Client) parseFeed(rawBody []byte) (*Yield, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	entries := doc.FindElements("//m:properties")
	if len(entries) == 0 {
		return nil, fmt.Errorf("no yield curve data found in XML")
	}
	latest := entries[len(entries)-1]

	dateElement := latest.FindElement("./d:NEW_DATE")
	rateElement := latest.FindElement("./d:BC_10YEAR")
	if dateElement == nil || rateElement == nil {
		return nil, fmt.Errorf("yield curve entry is missing date or 10-year rate")
	}

	var rate float64
	if _, err := fmt.Sscanf(rateElement.Text(), "%f", &rate); err != nil {
		return nil, fmt.Errorf("failed to parse 10-year rate: %v", err)
	}

	return &Yield{Date: dateElement.Text(), TenYear: rate}, nil
}

// GetTenYearYield retrieves the latest 10-year Treasury yield, the reference
// point quoted alongside municipal debt figures
func (c *Client) GetTenYearYield() (*Yield, error) {
	body, err := c.fetchFeed()
	if err != nil {
		return nil, err
	}

	yield, err := c.parseFeed(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved 10-year Treasury yield: %.2f%% (%s)", yield.TenYear, yield.Date)
	return yield, nil
}
