package pricing

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"marketing-intel/models"
	"marketing-intel/utils"
)

const shopSearchPath = "/v1/search/shop.json"

// Client calls the shopping search API. Transient failures (429, 5xx and
// transport errors) are retried with exponential backoff; any other
// non-200 status gives up immediately.
type Client struct {
	http   *resty.Client
	logger *utils.Logger
	retry  *utils.RetryConfig
}

type searchResponse struct {
	Items []models.SearchItem `json:"items"`
}

func NewClient(baseURL, clientID, clientSecret string, logger *utils.Logger) *Client {
	limiter := rate.NewLimiter(rate.Limit(5), 1)
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetHeader("X-Naver-Client-Id", clientID).
		SetHeader("X-Naver-Client-Secret", clientSecret).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})

	return &Client{
		http:   httpClient,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: 4,
			BaseDelay:   600 * time.Millisecond,
			Logger:      logger,
		},
	}
}

// Search queries listings for one product code query.
func (c *Client) Search(ctx context.Context, query string, display int) ([]models.SearchItem, error) {
	var out searchResponse

	err := c.retry.Do("shop search "+query, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"query":   query,
				"display": strconv.Itoa(display),
				"start":   "1",
			}).
			SetResult(&out).
			Get(shopSearchPath)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}

		code := resp.StatusCode()
		switch {
		case code == http.StatusOK:
			return nil
		case code == http.StatusTooManyRequests || code >= 500:
			return fmt.Errorf("status %d", code)
		default:
			return utils.Permanent(fmt.Errorf("status %d", code))
		}
	})
	if err != nil {
		return nil, err
	}
	return out.Items, nil
}
