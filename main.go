package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/torrent-meta/torrent"
	"github.com/torrent-meta/tracker"
)

func main() {
	torrentPath := flag.String("torrent", "", "path to a .torrent file")
	port := flag.Uint("port", tracker.DefaultPort, "listening port sent to the tracker")
	peerID := flag.String("peer-id", "", "20 character peer id (random when empty)")
	announce := flag.Bool("announce", false, "send a started announce to the tracker")
	timeout := flag.Duration("timeout", tracker.DefaultTimeout, "tracker request timeout")
	verify := flag.String("verify", "", "downloaded file whose first piece is checked against the torrent")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *torrentPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *port > 65535 {
		log.Fatalf("invalid port %d", *port)
	}

	t, err := torrent.Open(*torrentPath)
	if err != nil {
		log.Fatal(err)
	}
	printTorrent(t)

	if *verify != "" {
		if err := verifyFirstPiece(t, *verify); err != nil {
			log.Fatal(err)
		}
		fmt.Println("first piece: ok")
	}

	if !*announce {
		return
	}

	id := *peerID
	if id == "" {
		id = tracker.NewPeerID()
	}
	if len(id) != 20 {
		log.Fatalf("peer id must be 20 bytes, got %d", len(id))
	}

	tr, err := tracker.New(t, id, tracker.Config{Port: uint16(*port), Timeout: *timeout})
	if err != nil {
		log.Fatal(err)
	}
	log.WithField("peer_id", id).Info("announcing")

	v, err := tr.Announce(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("response: %v\n", v.Interface())

	resp, err := tracker.ParseResponse(v)
	if err != nil {
		log.Fatal(err)
	}
	if resp.WarningMessage != "" {
		log.Warn(resp.WarningMessage)
	}
	fmt.Printf("interval: %s\n", time.Duration(resp.Interval)*time.Second)
	for _, p := range resp.Peers {
		fmt.Println(p)
	}
}

func printTorrent(t *torrent.Torrent) {
	fmt.Println("name:", t.Info.Name)
	fmt.Println("info hash:", t.InfoHashHex())
	fmt.Println("piece length:", t.Info.PieceLength)
	fmt.Println("pieces:", t.PieceCount())
	fmt.Println("total length:", t.TotalLength())
	fmt.Println("private:", t.Info.IsPrivate())
	if !t.CreationDate.IsZero() {
		fmt.Println("created:", t.CreationDate.Format(time.RFC3339))
	}
	if t.CreatedBy != "" {
		fmt.Println("created by:", t.CreatedBy)
	}
	if t.Comment != "" {
		fmt.Println("comment:", t.Comment)
	}
	for _, u := range t.Trackers() {
		fmt.Println("tracker:", u)
	}
	if t.Info.MultiFile {
		for _, f := range t.Info.Files {
			fmt.Printf("file: %v (%d bytes)\n", f.Path, f.Length)
		}
	}
}

// verifyFirstPiece checks the leading piece of a downloaded file.
func verifyFirstPiece(t *torrent.Torrent, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, t.PieceSize(0))
	if _, err := io.ReadFull(f, buf); err != nil {
		return fmt.Errorf("read first piece of %s: %w", path, err)
	}
	log.WithField("bytes", len(buf)).Debug("verifying first piece")
	return t.VerifyPiece(0, buf)
}
