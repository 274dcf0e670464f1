package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	rootCmd   = &cobra.Command{
		Use:   "djdeck",
		Short: "djdeck CLI - Search and download tracks across music platforms",
		Long:  `A command-line client for the djdeck aggregation server: search SoundCloud, Spotify, Deezer, and YouTube, inspect tracks, and download audio.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "Server URL")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(platformsCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for tracks across platforms",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		platform, _ := cmd.Flags().GetString("platform")
		platforms, _ := cmd.Flags().GetString("platforms")

		endpoint := serverURL + "/api/v1/search"
		if platform != "" {
			endpoint = serverURL + "/api/v1/search/" + platform
		}

		params := url.Values{}
		params.Set("q", args[0])
		if limit > 0 {
			params.Set("limit", strconv.Itoa(limit))
		}
		if platform == "" && platforms != "" {
			params.Set("platforms", platforms)
		}

		body := getJSON(endpoint + "?" + params.Encode())

		var response struct {
			Query        string `json:"query"`
			TotalResults int    `json:"total_results"`
			Results      []struct {
				ID       string  `json:"id"`
				Title    string  `json:"title"`
				Artist   string  `json:"artist"`
				Source   string  `json:"source"`
				BPM      float64 `json:"bpm"`
				Duration int     `json:"duration"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &response); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%d results for %q\n\n", response.TotalResults, response.Query)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tARTIST\tTITLE\tSOURCE\tBPM\tDURATION")
		for _, track := range response.Results {
			bpm := "-"
			if track.BPM > 0 {
				bpm = fmt.Sprintf("%.1f", track.BPM)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				track.ID,
				truncate(track.Artist, 24),
				truncate(track.Title, 40),
				track.Source,
				bpm,
				formatDuration(track.Duration))
		}
		w.Flush()
	},
}

var trackCmd = &cobra.Command{
	Use:   "track [source] [id]",
	Short: "Show a single track's details",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		body := getJSON(serverURL + "/api/v1/track/" + args[0] + "/" + url.PathEscape(args[1]))

		var track map[string]interface{}
		if err := json.Unmarshal(body, &track); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Track Details:")
		fmt.Printf("  ID:       %v\n", track["id"])
		fmt.Printf("  Title:    %v\n", track["title"])
		fmt.Printf("  Artist:   %v\n", track["artist"])
		fmt.Printf("  Source:   %v\n", track["source"])
		fmt.Printf("  URL:      %v\n", track["url"])
		if bpm, ok := track["bpm"].(float64); ok && bpm > 0 {
			fmt.Printf("  BPM:      %.1f\n", bpm)
		}
		if duration, ok := track["duration"].(float64); ok && duration > 0 {
			fmt.Printf("  Duration: %s\n", formatDuration(int(duration)))
		}
		if genre, ok := track["genre"].(string); ok && genre != "" {
			fmt.Printf("  Genre:    %s\n", genre)
		}
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [source] [id]",
	Short: "Download a track's audio",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		payload, _ := json.Marshal(map[string]string{
			"source":   args[0],
			"track_id": args[1],
		})

		resp, err := http.Post(serverURL+"/api/v1/download", "application/json", bytes.NewBuffer(payload))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		var result struct {
			Status   string `json:"status"`
			Filepath string `json:"filepath"`
			Error    string `json:"error"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		if result.Status != "ready" {
			fmt.Fprintf(os.Stderr, "Download failed: %s\n", result.Error)
			os.Exit(1)
		}
		fmt.Printf("Download ready: %s\n", result.Filepath)
	},
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List platforms and their capabilities",
	Run: func(cmd *cobra.Command, args []string) {
		body := getJSON(serverURL + "/platforms")

		var response struct {
			Platforms []struct {
				Name         string `json:"name"`
				Capabilities struct {
					Available        bool `json:"is_available"`
					SupportsDownload bool `json:"supports_download"`
					SupportsBPM      bool `json:"supports_bpm"`
				} `json:"capabilities"`
			} `json:"platforms"`
		}
		if err := json.Unmarshal(body, &response); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PLATFORM\tAVAILABLE\tDOWNLOAD\tBPM")
		for _, p := range response.Platforms {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				p.Name,
				yesNo(p.Capabilities.Available),
				yesNo(p.Capabilities.SupportsDownload),
				yesNo(p.Capabilities.SupportsBPM))
		}
		w.Flush()
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "l", 0, "Results per platform")
	searchCmd.Flags().StringP("platform", "p", "", "Search a single platform")
	searchCmd.Flags().String("platforms", "", "Comma-separated platform subset")
}

// getJSON fetches the endpoint and exits with the server's error
// message on a non-200 response.
func getJSON(endpoint string) []byte {
	resp, err := http.Get(endpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
		os.Exit(1)
	}
	return body
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
