package seatsaero_test

const resultsPage = `<!doctype html>
<html><body>
<table id="DataTables_Table_0" class="table">
  <thead><tr><th>Date</th><th>Last Seen</th><th>Program</th></tr></thead>
  <tbody>
    <tr>
      <td>2024-07-01</td>
      <td><span data-bs-original-title="2024-06-30 14:02 UTC">  1 hour ago </span></td>
      <td>Smiles</td>
      <td>GRU</td>
      <td>MIA</td>
      <td><span class="badge">35,000 pts</span></td>
      <td></td>
      <td><span data-bs-original-title="Direct, 2 seats">90,000
            pts</span></td>
      <td></td>
      <td><a href="/trip/1">Book</a></td>
    </tr>
    <tr>
      <td>2024-07-02</td>
      <td>2 hours ago</td>
      <td>Aeroplan</td>
      <td>GRU</td>
      <td>MIA</td>
      <td>40,000 pts</td>
      <td></td>
      <td></td>
      <td></td>
    </tr>
  </tbody>
</table>
</body></html>`
