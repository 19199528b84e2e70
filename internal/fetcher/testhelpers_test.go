package fetcher

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// writeTestFile is a helper that writes data to a file path.
func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func createTestZIP(t *testing.T, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return zipPath
}

// ftpStub speaks just enough FTP (USER/PASS/FEAT/TYPE/EPSV/PASV/SIZE/RETR/QUIT)
// for the fetcher's retrieval path. Every USER is accepted and recorded.
type ftpStub struct {
	ln    net.Listener
	files map[string]string
	wg    sync.WaitGroup

	mu    sync.Mutex
	users []string
}

func (s *ftpStub) logins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.users...)
}

func newFTPStub(t *testing.T, files map[string]string) *ftpStub {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &ftpStub{ln: ln, files: files}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.wg.Add(1)
			go s.handle(conn)
		}
	}()
	t.Cleanup(s.close)
	return s
}

func (s *ftpStub) addr() string { return s.ln.Addr().String() }

func (s *ftpStub) close() {
	s.ln.Close() //nolint:errcheck
	s.wg.Wait()
}

func (s *ftpStub) handle(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()                                 //nolint:errcheck
	conn.SetDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck

	w := bufio.NewWriter(conn)
	r := bufio.NewReader(conn)
	reply := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\r\n", args...) //nolint:errcheck
		w.Flush()                              //nolint:errcheck
	}

	var data net.Listener
	openData := func() bool {
		var err error
		data, err = net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			reply("425 Can't open data connection")
			return false
		}
		return true
	}

	reply("220 stub ready")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch strings.ToUpper(cmd) {
		case "USER":
			s.mu.Lock()
			s.users = append(s.users, arg)
			s.mu.Unlock()
			reply("230 User logged in")
		case "PASS":
			reply("230 User logged in")
		case "SIZE":
			if content, ok := s.files[arg]; ok {
				reply("213 %d", len(content))
			} else {
				reply("550 File not found")
			}
		case "FEAT":
			reply("211-Features:\r\n UTF8\r\n211 End")
		case "TYPE", "OPTS":
			reply("200 OK")
		case "EPSV":
			if openData() {
				reply("229 Entering Extended Passive Mode (|||%d|)", data.Addr().(*net.TCPAddr).Port)
			}
		case "PASV":
			if openData() {
				port := data.Addr().(*net.TCPAddr).Port
				reply("227 Entering Passive Mode (127,0,0,1,%d,%d)", port/256, port%256)
			}
		case "RETR":
			if data == nil {
				reply("425 Use PASV first")
				continue
			}
			content, ok := s.files[arg]
			if !ok {
				reply("550 File not found")
				data.Close() //nolint:errcheck
				data = nil
				continue
			}
			reply("150 Opening data connection")
			dc, err := data.Accept()
			if err != nil {
				reply("425 Can't open data connection")
				continue
			}
			io.WriteString(dc, content) //nolint:errcheck
			dc.Close()                  //nolint:errcheck
			data.Close()                //nolint:errcheck
			data = nil
			reply("226 Transfer complete")
		case "QUIT":
			reply("221 Goodbye")
			return
		default:
			reply("502 Command not implemented")
		}
	}
}
