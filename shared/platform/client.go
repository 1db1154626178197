// Package platform wraps the YouTube Data API v3 behind typed read
// operations. It is a pure I/O boundary: no grading, no retries, and no
// decisions about whether missing data is fatal.
package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vidscope/internal/models"
	"vidscope/shared/config"
	"vidscope/shared/logger"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	// ErrNotFound reports that the requested video or channel does not
	// exist upstream.
	ErrNotFound = errors.New("platform: resource not found")

	// ErrNoCaptionAccess reports that caption content cannot be fetched,
	// either because no OAuth identity is configured or because the track
	// is not accessible. Callers treat this as a degraded outcome.
	ErrNoCaptionAccess = errors.New("platform: caption access unavailable")
)

// maxBatchIDs is the largest id list one Videos.List / Channels.List call
// accepts.
const maxBatchIDs = 50

// CaptionTrack identifies one caption track of a video.
type CaptionTrack struct {
	ID       string `json:"id"`
	Language string `json:"language"`
}

// SearchResult is one page of a keyword search: matched video ids plus the
// opaque continuation cursor for the next page ("" when exhausted).
type SearchResult struct {
	VideoIDs      []string `json:"video_ids"`
	NextPageToken string   `json:"next_page_token"`
}

// Client issues read calls against the video platform. Search, statistics
// and comments run on the API key; caption downloads additionally need the
// optional OAuth service.
type Client struct {
	svc        *youtube.Service
	captionSvc *youtube.Service
	log        *logger.Logger
}

func NewClient(ctx context.Context, cfg *config.YouTubeConfig, log *logger.Logger) (*Client, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	c := &Client{svc: svc, log: log.With("component", "platform")}

	// The caption service is best-effort: without a stored OAuth token the
	// transcript feature degrades, nothing else is affected.
	captionSvc, err := newCaptionService(ctx, cfg)
	if err != nil {
		c.log.Warn("caption access disabled", "reason", err)
	} else {
		c.captionSvc = captionSvc
	}

	return c, nil
}

// Search returns the ids of videos matching the query, newest page first,
// plus the continuation cursor.
func (c *Client) Search(ctx context.Context, query string, maxResults int64, pageToken string) (*SearchResult, error) {
	call := c.svc.Search.List([]string{"id"}).
		Context(ctx).
		Q(query).
		Type("video").
		MaxResults(maxResults)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, wrapAPIError("search", err)
	}

	result := &SearchResult{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			result.VideoIDs = append(result.VideoIDs, item.Id.VideoId)
		}
	}
	return result, nil
}

// Videos fetches snippet, duration and statistics for the given ids in
// comma-joined batches of up to 50.
func (c *Client) Videos(ctx context.Context, ids []string) ([]models.RawVideoSignal, error) {
	var videos []models.RawVideoSignal

	for i := 0; i < len(ids); i += maxBatchIDs {
		end := i + maxBatchIDs
		if end > len(ids) {
			end = len(ids)
		}

		resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Context(ctx).
			Id(strings.Join(ids[i:end], ",")).
			Do()
		if err != nil {
			return nil, wrapAPIError("videos", err)
		}

		for _, item := range resp.Items {
			videos = append(videos, videoSignal(item))
		}
	}

	if len(ids) > 0 && len(videos) == 0 {
		return nil, ErrNotFound
	}
	return videos, nil
}

// Channels fetches subscriber and view counters for the given channel ids,
// keyed by id. Ids are expected to be pre-deduplicated by the caller.
func (c *Client) Channels(ctx context.Context, ids []string) (map[string]models.RawChannelSignal, error) {
	channels := make(map[string]models.RawChannelSignal, len(ids))

	for i := 0; i < len(ids); i += maxBatchIDs {
		end := i + maxBatchIDs
		if end > len(ids) {
			end = len(ids)
		}

		resp, err := c.svc.Channels.List([]string{"statistics"}).
			Context(ctx).
			Id(strings.Join(ids[i:end], ",")).
			Do()
		if err != nil {
			return nil, wrapAPIError("channels", err)
		}

		for _, item := range resp.Items {
			if item.Statistics == nil {
				continue
			}
			channels[item.Id] = models.RawChannelSignal{
				ChannelID:   item.Id,
				Subscribers: int64(item.Statistics.SubscriberCount),
				TotalViews:  int64(item.Statistics.ViewCount),
				VideoCount:  int64(item.Statistics.VideoCount),
			}
		}
	}

	return channels, nil
}

// CaptionTracks lists the caption tracks of a video.
func (c *Client) CaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	resp, err := c.svc.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("captions", err)
	}

	var tracks []CaptionTrack
	for _, item := range resp.Items {
		track := CaptionTrack{ID: item.Id}
		if item.Snippet != nil {
			track.Language = item.Snippet.Language
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// DownloadCaption fetches one caption track as SRT. Requires the OAuth
// caption service; without it the call fails with ErrNoCaptionAccess.
func (c *Client) DownloadCaption(ctx context.Context, captionID string) (string, error) {
	if c.captionSvc == nil {
		return "", ErrNoCaptionAccess
	}

	resp, err := c.captionSvc.Captions.Download(captionID).Tfmt("srt").Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCaptionAccess, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read caption body: %w", err)
	}
	return string(body), nil
}

// Comments fetches up to maxResults top-level comments ordered by
// relevance.
func (c *Client) Comments(ctx context.Context, videoID string, maxResults int64) ([]models.Comment, error) {
	resp, err := c.svc.CommentThreads.List([]string{"snippet"}).
		Context(ctx).
		VideoId(videoID).
		Order("relevance").
		MaxResults(maxResults).
		Do()
	if err != nil {
		return nil, wrapAPIError("comments", err)
	}

	var comments []models.Comment
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		s := item.Snippet.TopLevelComment.Snippet

		comment := models.Comment{
			Author:    s.AuthorDisplayName,
			Text:      s.TextDisplay,
			LikeCount: s.LikeCount,
		}
		if publishedAt, err := time.Parse(time.RFC3339, s.PublishedAt); err == nil {
			comment.PublishedAt = publishedAt
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func videoSignal(item *youtube.Video) models.RawVideoSignal {
	v := models.RawVideoSignal{ID: item.Id}

	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.Description = item.Snippet.Description
		v.ChannelID = item.Snippet.ChannelId
		v.ChannelTitle = item.Snippet.ChannelTitle
		v.Tags = item.Snippet.Tags
		if item.Snippet.Thumbnails != nil {
			v.Thumbnail = bestThumbnail(item.Snippet.Thumbnails)
		}
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			v.PublishedAt = publishedAt
		}
	}
	if item.ContentDetails != nil {
		v.Duration = item.ContentDetails.Duration
		v.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
	}
	if item.Statistics != nil {
		v.ViewCount = int64(item.Statistics.ViewCount)
	}
	return v
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	for _, thumb := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

// parseDurationSeconds converts an ISO 8601 duration (e.g. "PT1M30S",
// "PT2H15M30S") into whole seconds.
func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	re := regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)
	matches := re.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}
	return totalSeconds
}

func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 404 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s call failed: %w", op, err)
}
